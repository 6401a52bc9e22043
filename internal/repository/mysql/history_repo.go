package mysql

import (
	"oqunet/internal/model"

	"gorm.io/gorm"
)

type BookHistoryRepository struct {
	DB *gorm.DB
}

func (r *BookHistoryRepository) Append(h *model.BookHistory) error {
	return r.DB.Create(h).Error
}

func (r *BookHistoryRepository) ListByBook(bookID uint64) ([]model.BookHistory, error) {
	var rows []model.BookHistory
	err := r.DB.Preload("Borrower").Where("book_id = ?", bookID).
		Order("returned_at DESC").Find(&rows).Error
	return rows, err
}

// LatestByBooks returns the most recent completed loan per book id.
func (r *BookHistoryRepository) LatestByBooks(bookIDs []uint64) (map[uint64]model.BookHistory, error) {
	latest := make(map[uint64]model.BookHistory, len(bookIDs))
	if len(bookIDs) == 0 {
		return latest, nil
	}
	var rows []model.BookHistory
	err := r.DB.Preload("Borrower").Where("book_id IN ?", bookIDs).
		Order("returned_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, h := range rows {
		if _, ok := latest[h.BookID]; !ok {
			latest[h.BookID] = h
		}
	}
	return latest, nil
}

func (r *BookHistoryRepository) DeleteByBook(bookID uint64) error {
	return r.DB.Where("book_id = ?", bookID).Delete(&model.BookHistory{}).Error
}

func (r *BookHistoryRepository) DeleteByUser(userID uint64) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.BookHistory{}).Error
}
