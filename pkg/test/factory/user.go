package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/core/domain"
)

const DefaultPassword = "12345678"

// NewUser builds a user whose password is DefaultPassword unless an
// EncryptedPassword override is given.
func NewUser(customData ...map[string]any) domain.User {
	now := time.Now().UTC()

	defaults := map[string]any{
		"ID":        0,
		"UUID":      uuid.New(),
		"Username":  "user_" + uuid.NewString()[:8],
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	overrides := mergeOverrides(customData)

	if _, exists := overrides["EncryptedPassword"]; !exists {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		defaults["EncryptedPassword"] = string(encryptedPassword)
	}

	instance := fab.New(domain.User{}, fab.Options[domain.User]{Defaults: defaults})

	return instance.Build(overrides)
}
