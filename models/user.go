package models

import "time"

// User is an account able to sign in. Only admins reach the admin API.
type User struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Name           string      `gorm:"not null" json:"name" validate:"present"`
	Email          string      `gorm:"not null;uniqueIndex" json:"email" validate:"present,email"`
	PasswordDigest string      `gorm:"not null" json:"-"`
	Profile        UserProfile `gorm:"not null" json:"profile" validate:"required,enum"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Password             string `gorm:"-" json:"password" validate:"omitempty,min=6"`
	PasswordConfirmation string `gorm:"-" json:"password_confirmation" validate:"omitempty,eqfield=Password"`
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Profile == ProfileAdmin
}

// UserSession is one signed in client of a user. Tokens reference the
// session by Client; deleting the row revokes the token.
type UserSession struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Client    string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (s *UserSession) TableName() string {
	return "user_sessions"
}
