package model

import "time"

const (
	MessageTypeTransferRequest = "transfer_request"
	MessageTypeTransferCode    = "transfer_code"
	MessageTypeChat            = "chat"
)

type Message struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	FromUserID   uint64    `gorm:"not null;index" json:"from_user_id"`
	FromUser     *User     `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID     uint64    `gorm:"not null;index" json:"to_user_id"`
	BookID       uint64    `gorm:"not null;index" json:"book_id"`
	Book         *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	MessageType  string    `gorm:"size:32;not null" json:"message_type"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	IsRead       bool      `gorm:"not null;default:false" json:"is_read"`
	TransferCode string    `gorm:"size:6" json:"transfer_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidMessageType reports whether t is one of the known message types.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeTransferRequest, MessageTypeTransferCode, MessageTypeChat:
		return true
	}
	return false
}
