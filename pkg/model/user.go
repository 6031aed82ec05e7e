package model

import "time"

type UserRole string

const (
	UserRoleAdmin       UserRole = "admin"
	UserRoleInterviewer UserRole = "interviewer"
	UserRoleContact     UserRole = "contact"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CanLogin reports whether the role may use the interviewer app.
func (u *User) CanLogin() bool {
	return u != nil && (u.Role == UserRoleAdmin || u.Role == UserRoleInterviewer)
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRes struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	User                 User      `json:"user"`
}
