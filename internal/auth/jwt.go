package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/golang-jwt/jwt/v5"
)

var ErrForbiddenRole = errors.New("only administrators and interviewers can log in")

// Maker issues and verifies access tokens. The backend token carried inside
// is sealed with AES-GCM so the JWT payload never exposes it.
type Maker struct {
	secret []byte
	ttl    time.Duration
	crypto *pkg.Crypto
	now    func() time.Time
}

func NewMaker(secret string, ttl time.Duration, crypto *pkg.Crypto) *Maker {
	return &Maker{secret: []byte(secret), ttl: ttl, crypto: crypto, now: time.Now}
}

// Issue creates an access token for u. backendToken may be empty.
func (m *Maker) Issue(u *model.User, backendToken string) (string, *UserClaims, error) {
	if !u.CanLogin() {
		return "", nil, ErrForbiddenRole
	}
	sealed := ""
	if backendToken != "" {
		var err error
		if sealed, err = m.crypto.Encrypt(backendToken); err != nil {
			return "", nil, fmt.Errorf("seal backend token: %w", err)
		}
	}
	claims, err := NewUserClaims(u, sealed, m.ttl, m.now())
	if err != nil {
		return "", nil, err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (m *Maker) Parse(tokenStr string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenUnverifiable
}

// BackendToken unseals the backend token carried by claims.
func (m *Maker) BackendToken(claims *UserClaims) (string, error) {
	if claims.BackendToken == "" {
		return "", nil
	}
	tok, err := m.crypto.Decrypt(claims.BackendToken)
	if err != nil {
		return "", fmt.Errorf("unseal backend token: %w", err)
	}
	return tok, nil
}
