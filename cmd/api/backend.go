package main

import (
	"context"

	"github.com/Olatundeadedeji/streamcati/internal/remote"
	"github.com/Olatundeadedeji/streamcati/internal/repository"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// remoteAuthenticator logs interviewers into the survey backend and keeps
// their backend token for later requests.
type remoteAuthenticator struct {
	client *remote.Client
}

func (a remoteAuthenticator) Authenticate(ctx context.Context, username, password string) (string, *model.User, error) {
	return a.client.Login(ctx, username, password)
}

func (a remoteAuthenticator) Profile(ctx context.Context, backendToken string, _ int64) (*model.User, error) {
	return a.client.WithToken(backendToken).Me(ctx)
}

// repoAuthenticator checks bcrypt password hashes in Postgres.
type repoAuthenticator struct {
	repo *repository.Repository
}

func (a repoAuthenticator) Authenticate(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := a.repo.Login(ctx, username, password)
	return "", u, err
}

func (a repoAuthenticator) Profile(ctx context.Context, _ string, userID int64) (*model.User, error) {
	return a.repo.GetUserByID(ctx, userID)
}
