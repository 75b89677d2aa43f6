package util

import (
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/core/domain"
)

// BcryptHasher salts and hashes with bcrypt. The salt is generated per call
// and stored inside the digest.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.InvalidArgumentf("password must be at most 72 bytes long")
	}

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))

	if err != nil && err != bcrypt.ErrMismatchedHashAndPassword {
		slog.Warn("BcryptHasher#Verify", "error", err)
	}

	return err == nil
}
