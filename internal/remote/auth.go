package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

type loginRes struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a backend token.
func (c *Client) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	var res loginRes
	in := model.LoginReq{Username: username, Password: password}
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login/", nil, in, &res); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return "", nil, fmt.Errorf("login: backend returned no token")
	}
	return res.Token, &res.User, nil
}

// Me returns the user the client's token belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me/", nil, nil, &u); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &u, nil
}
