package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	gorm.Model
	Name            string     `json:"name" gorm:"size:30;not null"`
	Email           string     `json:"email" gorm:"size:50;uniqueIndex;not null"`
	Phone           *string    `json:"phone" gorm:"size:11;uniqueIndex"`
	Address         string     `json:"address" gorm:"size:100"`
	Password        string     `json:"-"`
	Role            Role       `json:"role" gorm:"size:10;not null;default:user"`
	GoogleID        string     `json:"-" gorm:"size:64;index"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`

	// TokenVersion is embedded in every issued JWT; bumping it revokes all
	// tokens issued before.
	TokenVersion uint `json:"-" gorm:"not null;default:0"`

	Favorites []Property `json:"-" gorm:"many2many:user_favorite_properties"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword is false for accounts created through Google sign-in.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// PasswordResetTTL is how long a reset link stays valid.
const PasswordResetTTL = time.Hour

// PasswordResetToken holds a bcrypt hash of the most recent reset token for
// an email address.
type PasswordResetToken struct {
	Email     string    `gorm:"primaryKey;size:50"`
	TokenHash string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) > PasswordResetTTL
}
