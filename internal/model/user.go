// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account in the marketplace.
//
// Identity is email/password. The password column stores a bcrypt hash,
// never the plaintext; the `json:"-"` tags keep the hash and the reset
// token out of every API response regardless of which handler encodes
// the struct.
//
// Whatsapp and Bio are optional: the empty string is "not provided".
// PasswordToken/PasswordTokenExpires back the two-step reset flow; a
// zero expiry means no reset is pending.
type User struct {
	ID                   int64     `json:"id"        db:"id"`
	Name                 string    `json:"name"      db:"name"`
	Surname              string    `json:"surname"   db:"surname"`
	Email                string    `json:"email"     db:"email"`
	PasswordHash         string    `json:"-"         db:"password"`
	Whatsapp             string    `json:"whatsapp,omitempty" db:"whatsapp"`
	Bio                  string    `json:"bio,omitempty"      db:"bio"`
	Avatar               string    `json:"avatar"    db:"avatar"`
	PasswordToken        string    `json:"-"         db:"password_token"`
	PasswordTokenExpires time.Time `json:"-"         db:"password_token_expires"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
}

// PublicProfile is the subset of User returned by the authentication
// endpoints: enough for a client to render the logged-in user, nothing
// private.
type PublicProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Whatsapp string `json:"whatsapp,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Public projects the user onto its public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Surname:  u.Surname,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Whatsapp: u.Whatsapp,
		Bio:      u.Bio,
	}
}
