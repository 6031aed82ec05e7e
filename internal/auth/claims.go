package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type UserClaims struct {
	UserID   int64          `json:"user_id"`
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	// BackendToken is the sealed survey backend token; empty when the
	// Postgres store is used.
	BackendToken string `json:"bt,omitempty"`
	jwt.RegisteredClaims
}

func NewUserClaims(u *model.User, sealedToken string, duration time.Duration, now time.Time) (*UserClaims, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("error generating token id: %w", err)
	}

	return &UserClaims{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		BackendToken: sealedToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}, nil
}
