package domain

import "time"

// User is the identity record. Username is stored lowercased; password holds
// only the bcrypt hash; RefreshToken holds the single active session token
// (empty when logged out).
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty"`
	Password     string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Redacted returns a copy safe to hand to clients: the password hash and
// refresh token are cleared on top of the json:"-" tags.
func (u User) Redacted() *User {
	u.Password = ""
	u.RefreshToken = ""
	return &u
}
