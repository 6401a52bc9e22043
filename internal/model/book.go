package model

import "time"

// DefaultBorrowDays is the borrow period applied when none is given.
const DefaultBorrowDays = 14

type Book struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Author      string     `gorm:"size:255" json:"author"`
	ImageURL    string     `gorm:"type:text" json:"image_url"`
	Genre       string     `gorm:"size:64" json:"genre"`
	CommunityID uint64     `gorm:"not null;index" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`

	CurrentHolderID *uint64    `gorm:"index" json:"current_holder_id"`
	Holder          *User      `gorm:"foreignKey:CurrentHolderID" json:"holder,omitempty"`
	BorrowedAt      *time.Time `json:"borrowed_at"`
	BorrowDays      int        `gorm:"not null;default:14" json:"borrow_days"`

	InitialHolderID *uint64 `gorm:"index" json:"initial_holder_id"`
	InitialHolder   *User   `gorm:"foreignKey:InitialHolderID" json:"initial_holder,omitempty"`

	// Reserved for the transfer-code handshake; no transition consumes
	// these yet.
	PendingUserID *uint64 `json:"pending_user_id"`
	PendingUser   *User   `gorm:"foreignKey:PendingUserID" json:"pending_user,omitempty"`
	TransferCode  string  `gorm:"size:6" json:"-"`

	History []BookHistory `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	// LastLoan carries the most recent completed loan on community
	// listings; never persisted.
	LastLoan *BookHistory `gorm:"-" json:"last_loan,omitempty"`
	// DaysLeft is the derived dueness value, set on every read path for
	// borrowed books; never persisted.
	DaysLeft *int `gorm:"-" json:"days_remaining,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerUserID implements the Owned predicate: a book is managed by the
// owner of its community.
func (b *Book) OwnerUserID() *uint64 {
	if b.Community == nil {
		return nil
	}
	return b.Community.OwnerID
}

// DaysRemaining computes dueness for a loan: positive means days left,
// zero due today, negative overdue. Pure in (borrowedAt, borrowDays, now)
// so list and detail paths cannot disagree.
func DaysRemaining(borrowedAt time.Time, borrowDays int, now time.Time) int {
	elapsed := int(now.Sub(borrowedAt).Hours() / 24)
	return borrowDays - elapsed
}

// Dueness returns the book's remaining days and whether it is on loan.
func (b *Book) Dueness(now time.Time) (int, bool) {
	if b.BorrowedAt == nil {
		return 0, false
	}
	return DaysRemaining(*b.BorrowedAt, b.BorrowDays, now), true
}
