package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Phone       string     `gorm:"size:32" json:"phone"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        string     `gorm:"size:16;not null;default:user" json:"role"`
	CommunityID *uint64    `gorm:"index" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// InCommunity reports whether the user is a member of the given community.
func (u *User) InCommunity(communityID uint64) bool {
	return u.CommunityID != nil && *u.CommunityID == communityID
}
