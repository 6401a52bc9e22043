package mysql

import (
	"strings"
	"time"

	"oqunet/internal/model"

	"gorm.io/gorm"
)

type BookRepository struct {
	DB *gorm.DB
}

// bookPreloads joins the display associations every read path carries.
func bookPreloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Holder").Preload("InitialHolder").Preload("Community")
}

func (r *BookRepository) Create(b *model.Book) error {
	return r.DB.Create(b).Error
}

func (r *BookRepository) FindByID(id uint64) (*model.Book, error) {
	var book model.Book
	err := bookPreloads(r.DB).First(&book, id).Error
	return &book, err
}

// FindHeldBy returns the book currently held by the user, if any.
// Lending allows one active loan per user, so a single row suffices.
func (r *BookRepository) FindHeldBy(userID uint64) (*model.Book, error) {
	var book model.Book
	err := r.DB.Where("current_holder_id = ?", userID).First(&book).Error
	return &book, err
}

func (r *BookRepository) List() ([]model.Book, error) {
	var books []model.Book
	err := bookPreloads(r.DB).Order("id ASC").Find(&books).Error
	return books, err
}

func (r *BookRepository) ListByCommunity(communityID uint64) ([]model.Book, error) {
	var books []model.Book
	err := bookPreloads(r.DB).Where("community_id = ?", communityID).
		Order("id ASC").Find(&books).Error
	return books, err
}

// AnyOnLoanInCommunity returns a borrowed book of the community, if one
// exists. Used to block community deletion while loans are open.
func (r *BookRepository) AnyOnLoanInCommunity(communityID uint64) (*model.Book, error) {
	var book model.Book
	err := r.DB.Where("community_id = ? AND current_holder_id IS NOT NULL", communityID).
		First(&book).Error
	return &book, err
}

// SetHolder flips the holder only while the book is still available.
// The conditional update closes the race between two concurrent
// borrows: the caller must check the returned flag.
func (r *BookRepository) SetHolder(bookID, userID uint64, at time.Time) (bool, error) {
	res := r.DB.Model(&model.Book{}).
		Where("id = ? AND current_holder_id IS NULL", bookID).
		Updates(map[string]any{"current_holder_id": userID, "borrowed_at": at})
	return res.RowsAffected > 0, res.Error
}

// ForceHolder is the administrative assignment path: no availability
// guard.
func (r *BookRepository) ForceHolder(bookID, userID uint64, at time.Time) error {
	return r.DB.Model(&model.Book{}).Where("id = ?", bookID).
		Updates(map[string]any{"current_holder_id": userID, "borrowed_at": at}).Error
}

// ClearHolder releases the book only while holderID still holds it.
func (r *BookRepository) ClearHolder(bookID, holderID uint64) (bool, error) {
	res := r.DB.Model(&model.Book{}).
		Where("id = ? AND current_holder_id = ?", bookID, holderID).
		Updates(map[string]any{"current_holder_id": nil, "borrowed_at": nil})
	return res.RowsAffected > 0, res.Error
}

// ForceClearHolder releases the book regardless of holder.
func (r *BookRepository) ForceClearHolder(bookID uint64) error {
	return r.DB.Model(&model.Book{}).Where("id = ?", bookID).
		Updates(map[string]any{"current_holder_id": nil, "borrowed_at": nil}).Error
}

func (r *BookRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Book{}, id).Error
}

func (r *BookRepository) DeleteByCommunity(communityID uint64) error {
	return r.DB.Where("community_id = ?", communityID).Delete(&model.Book{}).Error
}

// Search filters by optional community scope, title/author substring
// and genre.
func (r *BookRepository) Search(communityID *uint64, query, genre string) ([]model.Book, error) {
	var books []model.Book
	q := bookPreloads(r.DB)
	if communityID != nil {
		q = q.Where("community_id = ?", *communityID)
	}
	if query = strings.TrimSpace(query); query != "" {
		p := "%" + query + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", p, p)
	}
	if genre != "" && genre != "all" {
		q = q.Where("genre = ?", genre)
	}
	err := q.Order("title ASC").Find(&books).Error
	return books, err
}
