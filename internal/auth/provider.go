package auth

import (
	"context"

	"github.com/suryard0605/medtrack/internal"
)

// Provider resolves a bearer token to the account it belongs to. Local
// validation serves development; remote validation delegates to the identity
// service that actually issued the token.
type Provider interface {
	ValidateTokenLocal(ctx context.Context, token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}
