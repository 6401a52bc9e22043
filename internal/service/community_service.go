package service

import (
	"errors"

	"oqunet/internal/model"
	"oqunet/internal/repository/mysql"

	"gorm.io/gorm"
)

// CommunityService owns membership and community lifecycle. Membership
// is exclusive: a user belongs to at most one community at a time.
type CommunityService struct {
	db *gorm.DB
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{db: db}
}

func (s *CommunityService) validateAccessCode(code string) (string, error) {
	normalized := model.NormalizeAccessCode(code)
	if len(normalized) < model.MinAccessCodeLen {
		return "", newErr(KindInvalidAccessCode,
			"access code must be at least %d characters", model.MinAccessCodeLen)
	}
	communities := &mysql.CommunityRepository{DB: s.db}
	_, err := communities.FindByAccessCode(normalized)
	if err == nil {
		return "", newErr(KindDuplicateAccessCode, "this access code is already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return normalized, nil
}

// Create makes a self-service community: the creator becomes owner and
// is joined as its first member.
func (s *CommunityService) Create(actor *model.User, name, accessCode, description string) (*model.Community, *model.User, error) {
	if name == "" || accessCode == "" {
		return nil, nil, newErr(KindValidation, "name and access code are required")
	}
	normalized, err := s.validateAccessCode(accessCode)
	if err != nil {
		return nil, nil, err
	}

	ownerID := actor.ID
	community := &model.Community{
		Name:        name,
		Description: description,
		AccessCode:  normalized,
		OwnerID:     &ownerID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := (&mysql.CommunityRepository{DB: tx}).Create(community); err != nil {
			return err
		}
		return (&mysql.UserRepository{DB: tx}).SetCommunity(actor.ID, &community.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	communities := &mysql.CommunityRepository{DB: s.db}
	users := &mysql.UserRepository{DB: s.db}
	created, err := communities.FindByID(community.ID)
	if err != nil {
		return nil, nil, err
	}
	refreshed, err := users.FindByID(actor.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, refreshed, nil
}

// Add is the admin surface: same code checks, no owner (a legacy
// community).
func (s *CommunityService) Add(actor *model.User, name, accessCode, description string) (*model.Community, error) {
	if !actor.IsAdmin() {
		return nil, newErr(KindForbidden, "admin only")
	}
	if name == "" || accessCode == "" {
		return nil, newErr(KindValidation, "name and access code are required")
	}
	normalized, err := s.validateAccessCode(accessCode)
	if err != nil {
		return nil, err
	}

	community := &model.Community{
		Name:        name,
		Description: description,
		AccessCode:  normalized,
	}
	if err := (&mysql.CommunityRepository{DB: s.db}).Create(community); err != nil {
		return nil, err
	}
	return community, nil
}

// Delete removes a community with its books and member associations.
// Blocked while any of its books is on loan; with no open loans the
// delete cascades (policy applied uniformly with the member guards).
func (s *CommunityService) Delete(actor *model.User, communityID uint64) error {
	communities := &mysql.CommunityRepository{DB: s.db}
	community, err := communities.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "community not found")
		}
		return err
	}
	if !canManage(actor, community) {
		return newErr(KindForbidden, "you cannot delete this community")
	}

	books := &mysql.BookRepository{DB: s.db}
	onLoan, err := books.AnyOnLoanInCommunity(community.ID)
	if err == nil {
		return newErr(KindHasActiveLoan,
			"%q is still borrowed; all books must be returned first", onLoan.Title)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txBooks := &mysql.BookRepository{DB: tx}
		txHistories := &mysql.BookHistoryRepository{DB: tx}

		pool, err := txBooks.ListByCommunity(community.ID)
		if err != nil {
			return err
		}
		for _, b := range pool {
			if err := txHistories.DeleteByBook(b.ID); err != nil {
				return err
			}
		}
		if err := txBooks.DeleteByCommunity(community.ID); err != nil {
			return err
		}
		if err := (&mysql.UserRepository{DB: tx}).ClearCommunityForAll(community.ID); err != nil {
			return err
		}
		return (&mysql.CommunityRepository{DB: tx}).Delete(community.ID)
	})
}

// Join enrols the actor via access code. Matching is case-insensitive
// through normalization.
func (s *CommunityService) Join(actor *model.User, accessCode string) (*model.User, error) {
	if actor.CommunityID != nil {
		return nil, newErr(KindAlreadyMember, "you already belong to a community")
	}

	communities := &mysql.CommunityRepository{DB: s.db}
	community, err := communities.FindByAccessCode(accessCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindInvalidCode, "wrong code: community not found")
		}
		return nil, err
	}

	users := &mysql.UserRepository{DB: s.db}
	if err := users.SetCommunity(actor.ID, &community.ID); err != nil {
		return nil, err
	}
	return users.FindByID(actor.ID)
}

// Leave detaches the actor from their community; blocked while they
// hold a book.
func (s *CommunityService) Leave(actor *model.User) (*model.User, error) {
	if actor.CommunityID == nil {
		return nil, newErr(KindNotMember, "you are not in a community")
	}

	books := &mysql.BookRepository{DB: s.db}
	held, err := books.FindHeldBy(actor.ID)
	if err == nil {
		return nil, newErr(KindHasActiveLoan, "return %q first", held.Title)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	users := &mysql.UserRepository{DB: s.db}
	if err := users.SetCommunity(actor.ID, nil); err != nil {
		return nil, err
	}
	return users.FindByID(actor.ID)
}

// Members lists a community's membership for its owner or an admin.
func (s *CommunityService) Members(actor *model.User, communityID uint64) ([]model.User, error) {
	communities := &mysql.CommunityRepository{DB: s.db}
	community, err := communities.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "community not found")
		}
		return nil, err
	}
	if !canManage(actor, community) {
		return nil, newErr(KindForbidden, "only the community owner may view members")
	}
	return (&mysql.UserRepository{DB: s.db}).ListByCommunity(community.ID)
}

// RemoveMember expels a member. The owner cannot be removed, nor can a
// member who still holds a book.
func (s *CommunityService) RemoveMember(actor *model.User, communityID, userID uint64) error {
	communities := &mysql.CommunityRepository{DB: s.db}
	community, err := communities.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "community not found")
		}
		return err
	}
	if !canManage(actor, community) {
		return newErr(KindForbidden, "only the community owner may remove members")
	}

	users := &mysql.UserRepository{DB: s.db}
	user, err := users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "user not found")
		}
		return err
	}
	if !user.InCommunity(community.ID) {
		return newErr(KindNotFound, "this user is not in the community")
	}
	if community.OwnerID != nil && user.ID == *community.OwnerID {
		return newErr(KindCannotRemoveOwner, "the owner cannot be removed")
	}

	books := &mysql.BookRepository{DB: s.db}
	held, err := books.FindHeldBy(user.ID)
	if err == nil {
		return newErr(KindHasActiveLoan,
			"%s still has a book: %q. It must be returned first", user.Name, held.Title)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return users.SetCommunity(user.ID, nil)
}

// List returns every community for admins, otherwise the ones the
// actor owns.
func (s *CommunityService) List(actor *model.User) ([]model.Community, error) {
	communities := &mysql.CommunityRepository{DB: s.db}
	if actor.IsAdmin() {
		return communities.List()
	}
	return communities.ListByOwner(actor.ID)
}

// ListPublic is the unauthenticated directory: names only, no codes.
func (s *CommunityService) ListPublic() ([]model.Community, error) {
	return (&mysql.CommunityRepository{DB: s.db}).ListPublic()
}
