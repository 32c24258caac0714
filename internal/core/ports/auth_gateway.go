package ports

import (
	"context"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

// LoginInput carries the credentials for POST /auth/login.
type LoginInput struct {
	Username string
	Password string
}

// SignupInput carries the account details for POST /auth/signup.
type SignupInput struct {
	Username string
	FullName string
	Password string
}

// AuthResult is the fresh credential returned by the API.
type AuthResult struct {
	Token string
	User  domain.User
}

// AuthGateway is the remote authentication endpoint. Rejections surface as
// errors wrapping domain.ErrAuthenticationRejected.
type AuthGateway interface {
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
}
