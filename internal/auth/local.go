package auth

import (
	"context"
	"errors"

	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/storage"
)

// LocalAuthProvider resolves tokens against the user store directly, with a
// configured fallback token that maps to a demo account. Development only.
type LocalAuthProvider struct {
	Token  string
	users  storage.UserRepository
	logger internal.Logger
}

func NewLocalAuthProvider(token string, users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Token: token, users: users, logger: logger}
}

func (a *LocalAuthProvider) ValidateTokenLocal(ctx context.Context, token string) (*internal.User, error) {
	if user, err := a.users.GetUserByToken(ctx, token); err == nil {
		return user, nil
	}
	if token == a.Token {
		return &internal.User{ID: "u1", Token: a.Token, Name: "Demo User", Email: "demo@example.com"}, nil
	}
	a.logger.Warnf("invalid token: %s", token)
	return nil, errors.New("invalid token")
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}
