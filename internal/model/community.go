package model

import (
	"strings"
	"time"
)

// MinAccessCodeLen is the shortest access code a community may carry.
const MinAccessCodeLen = 4

type Community struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	AccessCode  string    `gorm:"uniqueIndex;size:32" json:"access_code"`
	OwnerID     *uint64   `gorm:"index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerUserID implements the Owned predicate used by management checks.
func (c *Community) OwnerUserID() *uint64 {
	return c.OwnerID
}

// NormalizeAccessCode folds an access code to its stored form.
// Codes match case-insensitively because both creation and join
// normalize through here.
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
