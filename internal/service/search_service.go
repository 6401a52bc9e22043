package service

import (
	"oqunet/internal/model"
	"oqunet/internal/repository/mysql"
	"time"

	"gorm.io/gorm"
)

// Genres is the fixed catalogue offered by the book form.
var Genres = []string{
	"Novel",
	"Short stories",
	"Poetry",
	"Science fiction",
	"Fantasy",
	"Detective",
	"Thriller",
	"Romance",
	"Historical fiction",
	"Popular science",
	"Biography",
	"Psychology",
	"Children's literature",
	"Self-development",
	"Religious literature",
}

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Books searches by title/author substring and genre, scoped to the
// actor's community unless the actor is an admin.
func (s *SearchService) Books(actor *model.User, query, genre string) ([]model.Book, error) {
	var scope *uint64
	if !actor.IsAdmin() {
		if actor.CommunityID == nil {
			return []model.Book{}, nil
		}
		scope = actor.CommunityID
	}

	books := &mysql.BookRepository{DB: s.db}
	list, err := books.Search(scope, query, genre)
	if err != nil {
		return nil, err
	}
	decorateDuenessAll(time.Now(), list)
	return list, nil
}

// Users is the admin-only people search.
func (s *SearchService) Users(actor *model.User, query string) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, newErr(KindForbidden, "admin only")
	}
	return (&mysql.UserRepository{DB: s.db}).Search(query)
}

func (s *SearchService) GenreList() []string {
	return Genres
}
