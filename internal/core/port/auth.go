package port

import (
	"context"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/request"
	"taskmanager/internal/core/model/response"
)

type AuthService interface {
	Register(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*response.AccessTokenResponse, error)
}

// PasswordHasher derives and checks salted password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenManager interface {
	Issue(ctx context.Context, user domain.User) (string, error)
	Verify(ctx context.Context, token string) (domain.Principal, error)
}
