package service

import (
	"errors"

	"oqunet/internal/model"
	"oqunet/internal/pkg"
	"oqunet/internal/repository/mysql"
	"oqunet/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db       *gorm.DB
	sessions *redis.SessionRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// SetSessionStore enables the single-login token cache.
func (s *UserService) SetSessionStore(sessions *redis.SessionRepository) {
	s.sessions = sessions
}

type AddUserParams struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	Role        string
	CommunityID *uint64
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Register creates a self-service account with the user role.
func (s *UserService) Register(name, email, phone, password string) (*model.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, newErr(KindValidation, "name, email and password are required")
	}

	users := &mysql.UserRepository{DB: s.db}
	if _, err := users.FindByEmail(email); err == nil {
		return nil, newErr(KindValidation, "this email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: hash,
		Role:     model.RoleUser,
	}
	if err := users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a 24h access token. Lookup and
// password failures are flattened to one message.
func (s *UserService) Login(email, password string) (string, *model.User, error) {
	users := &mysql.UserRepository{DB: s.db}
	user, err := users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, newErr(KindValidation, "invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, newErr(KindValidation, "invalid email or password")
	}

	token, err := pkg.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	if s.sessions != nil {
		if err := s.sessions.Store(user.ID, token); err != nil {
			return "", nil, err
		}
	}
	return token, user, nil
}

func (s *UserService) Logout(actor *model.User) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(actor.ID)
}

// Add is the admin surface for creating accounts. Admin accounts are
// never attached to a community.
func (s *UserService) Add(actor *model.User, p AddUserParams) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, newErr(KindForbidden, "admin only")
	}
	if p.Name == "" || p.Email == "" || p.Password == "" {
		return nil, newErr(KindValidation, "name, email and password are required")
	}

	users := &mysql.UserRepository{DB: s.db}
	if _, err := users.FindByEmail(p.Email); err == nil {
		return nil, newErr(KindValidation, "this email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := p.Role
	if role != model.RoleAdmin {
		role = model.RoleUser
	}
	communityID := p.CommunityID
	if role == model.RoleAdmin {
		communityID = nil
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Password:    hash,
		Role:        role,
		CommunityID: communityID,
	}
	if err := users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Admin accounts are never deleted, users
// may only delete themselves unless the actor is an admin, and an
// outstanding loan blocks deletion.
func (s *UserService) Delete(actor *model.User, userID uint64) error {
	users := &mysql.UserRepository{DB: s.db}
	user, err := users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "user not found")
		}
		return err
	}
	if user.IsAdmin() {
		return newErr(KindForbidden, "admin accounts cannot be deleted")
	}
	if !actor.IsAdmin() && actor.ID != user.ID {
		return newErr(KindForbidden, "you may only delete your own account")
	}

	books := &mysql.BookRepository{DB: s.db}
	held, err := books.FindHeldBy(user.ID)
	if err == nil {
		return newErr(KindHasActiveLoan, "return %q before deleting the account", held.Title)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := (&mysql.BookHistoryRepository{DB: tx}).DeleteByUser(user.ID); err != nil {
			return err
		}
		return (&mysql.UserRepository{DB: tx}).Delete(user.ID)
	})
}

// UpdateProfile changes the actor's display fields; a changed email
// must stay unique.
func (s *UserService) UpdateProfile(actor *model.User, name, email, phone string) (*model.User, error) {
	users := &mysql.UserRepository{DB: s.db}
	user, err := users.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "user not found")
		}
		return nil, err
	}

	if email != "" && email != user.Email {
		if _, err := users.FindByEmail(email); err == nil {
			return nil, newErr(KindValidation, "this email is already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}

	if err := users.Save(user); err != nil {
		return nil, err
	}
	return users.FindByID(user.ID)
}

func (s *UserService) List() ([]model.User, error) {
	return (&mysql.UserRepository{DB: s.db}).List()
}
