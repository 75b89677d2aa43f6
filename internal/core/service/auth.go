package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/request"
	"taskmanager/internal/core/model/response"
	"taskmanager/internal/core/port"
)

type AuthService struct {
	repo   port.UserRepository
	hasher port.PasswordHasher
	tokens port.TokenManager

	// digest compared against when the username is unknown
	dummyDigest string
}

func NewAuthService(repo port.UserRepository, hasher port.PasswordHasher, tokens port.TokenManager) *AuthService {
	dummyDigest, err := hasher.Hash(uuid.NewString())

	if err != nil {
		slog.Warn("Auth#New", "dummy_digest", err)
	}

	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		dummyDigest: dummyDigest,
	}
}

// Register stores a new user. Username uniqueness is left to the storage
// constraint so concurrent registrations cannot both succeed.
func (as *AuthService) Register(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	encrypted, err := as.hasher.Hash(req.Password)

	if errors.Is(err, domain.ErrInvalidArgument) {
		return nil, err
	}

	if err != nil {
		slog.Error("Auth#Register", "hash_password", err)
		return nil, domain.Internal(err)
	}

	now := time.Now().UTC()

	user := domain.User{
		UUID:              uuid.New(),
		Username:          req.Username,
		EncryptedPassword: encrypted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	savedUser, err := as.repo.Create(ctx, user)

	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.ErrUsernameTaken
	}

	if err != nil {
		slog.Error("Auth#Register", "create", err, "username", req.Username)
		return nil, domain.Internal(err)
	}

	return &savedUser, nil
}

func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*response.AccessTokenResponse, error) {
	user, err := as.repo.GetByUsername(ctx, req.Username)

	if errors.Is(err, domain.ErrNotFound) {
		as.hasher.Verify(req.Password, as.dummyDigest)
		return nil, domain.ErrInvalidCredentials
	}

	if err != nil {
		slog.Error("Auth#Authenticate", "get_by_username", err)
		return nil, domain.Internal(err)
	}

	if !as.hasher.Verify(req.Password, user.EncryptedPassword) {
		slog.Info("Auth#Authenticate", "rejected", user.UUID)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := as.tokens.Issue(ctx, user)

	if err != nil {
		slog.Error("Auth#Authenticate", "issue_token", err)
		return nil, domain.Internal(err)
	}

	return &response.AccessTokenResponse{AccessToken: token}, nil
}
