package model

import "time"

// BookHistory is an append-only record of one completed loan. A row is
// written at the moment of a self-service return, carrying both
// timestamps, and never mutated afterwards.
type BookHistory struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	BookID     uint64    `gorm:"not null;index" json:"book_id"`
	UserID     uint64    `gorm:"not null;index" json:"user_id"`
	Borrower   *User     `gorm:"foreignKey:UserID" json:"borrower,omitempty"`
	BorrowedAt time.Time `gorm:"not null" json:"borrowed_at"`
	ReturnedAt time.Time `gorm:"not null;index" json:"returned_at"`
}

func (BookHistory) TableName() string {
	return "book_histories"
}
