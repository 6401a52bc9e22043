package service

import (
	"errors"
	"time"

	"oqunet/internal/model"
	"oqunet/internal/pkg"
	"oqunet/internal/repository/mysql"

	"gorm.io/gorm"
)

// BookService is the lending transition engine: every holder mutation
// goes through here, each check-then-write wrapped in one transaction
// with a conditional update so concurrent borrows cannot both win.
type BookService struct {
	db     *gorm.DB
	events *pkg.KafkaProducer
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

// SetEventProducer enables best-effort loan-event publishing.
func (s *BookService) SetEventProducer(p *pkg.KafkaProducer) {
	s.events = p
}

type AddBookParams struct {
	Title           string
	Author          string
	ImageURL        string
	Genre           string
	CommunityID     uint64
	BorrowDays      int
	InitialHolderID *uint64
}

// Borrow hands the book to the actor. Preconditions, in order: the
// actor holds no other book, the book exists, it is available, and it
// belongs to the actor's community (admins skip the community check).
func (s *BookService) Borrow(actor *model.User, bookID uint64) (*model.Book, error) {
	var out *model.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		books := &mysql.BookRepository{DB: tx}

		held, err := books.FindHeldBy(actor.ID)
		if err == nil {
			return newErr(KindAlreadyHoldingBook,
				"you already have a book: %q. Return it first", held.Title)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		book, err := books.FindByID(bookID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "book not found")
		}
		if err != nil {
			return err
		}

		if book.CurrentHolderID != nil {
			holder := "another member"
			if book.Holder != nil {
				holder = book.Holder.Name
			}
			return newErr(KindAlreadyBorrowed, "book is currently with %s", holder)
		}

		if !actor.IsAdmin() && !actor.InCommunity(book.CommunityID) {
			return newErr(KindWrongCommunity, "this book belongs to another community")
		}

		ok, err := books.SetHolder(book.ID, actor.ID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race to a concurrent borrow.
			return newErr(KindAlreadyBorrowed, "book was just borrowed by someone else")
		}

		out, err = books.FindByID(book.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	emitLoanEvent(s.events, EventBookBorrowed, out.ID, actor.ID)
	decorateDueness(time.Now(), out)
	return out, nil
}

// ReturnMyBook completes the actor's loan: one history row carrying
// the pre-clear borrowed_at, then the holder is released.
func (s *BookService) ReturnMyBook(actor *model.User, bookID uint64) (*model.Book, error) {
	var out *model.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		books := &mysql.BookRepository{DB: tx}
		histories := &mysql.BookHistoryRepository{DB: tx}

		book, err := books.FindByID(bookID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "book not found")
		}
		if err != nil {
			return err
		}

		if book.CurrentHolderID == nil || *book.CurrentHolderID != actor.ID {
			return newErr(KindNotHolder, "you do not have this book")
		}

		now := time.Now()
		borrowedAt := now
		if book.BorrowedAt != nil {
			borrowedAt = *book.BorrowedAt
		}
		if err := histories.Append(&model.BookHistory{
			BookID:     book.ID,
			UserID:     actor.ID,
			BorrowedAt: borrowedAt,
			ReturnedAt: now,
		}); err != nil {
			return err
		}

		ok, err := books.ClearHolder(book.ID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return newErr(KindNotHolder, "you do not have this book")
		}

		out, err = books.FindByID(book.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	emitLoanEvent(s.events, EventBookReturned, out.ID, actor.ID)
	return out, nil
}

// Assign is the administrative override: no loan-count or community
// checks, and no history row.
func (s *BookService) Assign(actor *model.User, bookID, userID uint64) (*model.Book, error) {
	if !actor.IsAdmin() {
		return nil, newErr(KindForbidden, "admin only")
	}

	books := &mysql.BookRepository{DB: s.db}
	users := &mysql.UserRepository{DB: s.db}

	if _, err := books.FindByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "book not found")
		}
		return nil, err
	}
	user, err := users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "user not found")
		}
		return nil, err
	}

	if err := books.ForceHolder(bookID, user.ID, time.Now()); err != nil {
		return nil, err
	}
	out, err := books.FindByID(bookID)
	if err != nil {
		return nil, err
	}
	emitLoanEvent(s.events, EventBookAssigned, out.ID, user.ID)
	decorateDueness(time.Now(), out)
	return out, nil
}

// AdminReturn clears the holder without writing history. The asymmetry
// with self-service return matches the observed system behavior.
func (s *BookService) AdminReturn(actor *model.User, bookID uint64) (*model.Book, error) {
	if !actor.IsAdmin() {
		return nil, newErr(KindForbidden, "admin only")
	}

	books := &mysql.BookRepository{DB: s.db}
	book, err := books.FindByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "book not found")
		}
		return nil, err
	}

	if err := books.ForceClearHolder(book.ID); err != nil {
		return nil, err
	}
	out, err := books.FindByID(book.ID)
	if err != nil {
		return nil, err
	}
	emitLoanEvent(s.events, EventBookReleased, out.ID, actor.ID)
	return out, nil
}

// List returns every book for admins, otherwise the actor's community
// pool.
func (s *BookService) List(actor *model.User) ([]model.Book, error) {
	books := &mysql.BookRepository{DB: s.db}

	var (
		list []model.Book
		err  error
	)
	if actor.IsAdmin() {
		list, err = books.List()
	} else if actor.CommunityID != nil {
		list, err = books.ListByCommunity(*actor.CommunityID)
	}
	if err != nil {
		return nil, err
	}
	decorateDuenessAll(time.Now(), list)
	return list, nil
}

// ListByCommunity returns a community's pool with the most recent
// completed loan attached per book.
func (s *BookService) ListByCommunity(actor *model.User, communityID uint64) ([]model.Book, error) {
	if !actor.IsAdmin() && !actor.InCommunity(communityID) {
		return nil, newErr(KindForbidden, "you cannot view another community's books")
	}

	books := &mysql.BookRepository{DB: s.db}
	histories := &mysql.BookHistoryRepository{DB: s.db}

	list, err := books.ListByCommunity(communityID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	latest, err := histories.LatestByBooks(ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if h, ok := latest[list[i].ID]; ok {
			last := h
			list[i].LastLoan = &last
		}
	}
	decorateDuenessAll(time.Now(), list)
	return list, nil
}

// Add creates a book in a community the actor manages. The community
// lookup runs before the ownership check so a bad id never reads as a
// permission error.
func (s *BookService) Add(actor *model.User, p AddBookParams) (*model.Book, error) {
	if p.Title == "" {
		return nil, newErr(KindValidation, "title is required")
	}

	communities := &mysql.CommunityRepository{DB: s.db}
	community, err := communities.FindByID(p.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "community not found")
		}
		return nil, err
	}
	if !canManage(actor, community) {
		return nil, newErr(KindForbidden, "only the community owner may add books")
	}

	if p.BorrowDays < 1 {
		p.BorrowDays = model.DefaultBorrowDays
	}
	book := &model.Book{
		Title:           p.Title,
		Author:          p.Author,
		ImageURL:        p.ImageURL,
		Genre:           p.Genre,
		CommunityID:     community.ID,
		BorrowDays:      p.BorrowDays,
		InitialHolderID: p.InitialHolderID,
	}

	books := &mysql.BookRepository{DB: s.db}
	if err := books.Create(book); err != nil {
		return nil, err
	}
	return books.FindByID(book.ID)
}

// Delete removes a book and its loan history.
func (s *BookService) Delete(actor *model.User, bookID uint64) error {
	books := &mysql.BookRepository{DB: s.db}
	book, err := books.FindByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "book not found")
		}
		return err
	}
	if !canManage(actor, book) {
		return newErr(KindForbidden, "only the community owner may delete books")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		histories := &mysql.BookHistoryRepository{DB: tx}
		if err := histories.DeleteByBook(book.ID); err != nil {
			return err
		}
		return (&mysql.BookRepository{DB: tx}).Delete(book.ID)
	})
}

// History lists a book's completed loans, newest first.
func (s *BookService) History(actor *model.User, bookID uint64) ([]model.BookHistory, error) {
	books := &mysql.BookRepository{DB: s.db}
	book, err := books.FindByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "book not found")
		}
		return nil, err
	}
	if !actor.IsAdmin() && !actor.InCommunity(book.CommunityID) {
		return nil, newErr(KindForbidden, "you cannot view another community's books")
	}
	return (&mysql.BookHistoryRepository{DB: s.db}).ListByBook(book.ID)
}

// decorateDueness fills the derived days-remaining field. Every read
// path funnels through here so list and detail views agree.
func decorateDueness(now time.Time, book *model.Book) {
	if days, ok := book.Dueness(now); ok {
		book.DaysLeft = &days
	}
}

func decorateDuenessAll(now time.Time, books []model.Book) {
	for i := range books {
		decorateDueness(now, &books[i])
	}
}
