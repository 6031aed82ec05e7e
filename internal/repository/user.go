package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Olatundeadedeji/streamcati/pkg"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

const userCols = `id, username, email, password_hash, role, phone, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.Phone, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = model.UserRole(role)
	return &u, nil
}

// CreateUser inserts a user with an already hashed password.
func (r *Repository) CreateUser(ctx context.Context, u model.User) (int64, error) {
	const q = `
INSERT INTO users (username, email, password_hash, role, phone, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING id
`
	var id int64
	err := r.db.QueryRow(ctx, q, strings.ToLower(u.Username), u.Email, u.PasswordHash, string(u.Role), u.Phone).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("username %q: %w", u.Username, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, strings.ToLower(username)))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// Login checks the password of username. Unknown users and wrong passwords
// both return ErrBadLogin.
func (r *Repository) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := r.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadLogin
	}
	if err != nil {
		return nil, err
	}
	if err := pkg.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, ErrBadLogin
	}
	return u, nil
}
