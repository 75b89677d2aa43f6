package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Username          string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Principal is the identity carried by an access token.
type Principal struct {
	UserUUID uuid.UUID
	Username string
}

func (u *User) Principal() Principal {
	return Principal{
		UserUUID: u.UUID,
		Username: u.Username,
	}
}
