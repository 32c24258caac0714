package researchapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

// AuthGateway calls the unauthenticated /auth endpoints. It must be built on
// a client without the authenticated transport: a refused login is not a
// rejected session.
type AuthGateway struct {
	client *Client
}

var _ ports.AuthGateway = (*AuthGateway)(nil)

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (g *AuthGateway) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	var out authResponse
	err := g.client.post(ctx, "/auth/login", loginRequest{Username: in.Username, Password: in.Password}, &out)
	if err != nil {
		return nil, asRejection(err)
	}
	return &ports.AuthResult{Token: out.Token, User: out.User}, nil
}

func (g *AuthGateway) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	var out authResponse
	req := signupRequest{Username: in.Username, FullName: in.FullName, Password: in.Password}
	if err := g.client.post(ctx, "/auth/signup", req, &out); err != nil {
		return nil, asRejection(err)
	}
	return &ports.AuthResult{Token: out.Token, User: out.User}, nil
}

// asRejection turns client errors from the auth endpoints into rejections.
// Server errors and network failures stay upstream failures.
func asRejection(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		apiErr.kind = domain.ErrAuthenticationRejected
	}
	return apiErr
}
