package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/adapter/auth"
	"taskmanager/internal/adapter/database/repository"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/request"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/service"
	"taskmanager/internal/core/util"
	. "taskmanager/pkg/test"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type AuthServiceTestSuite struct {
	suite.Suite
	UseCase port.AuthService
	repo    port.UserRepository
	tokens  port.TokenManager
}

func (s *AuthServiceTestSuite) SetupTest() {
	db := NewTestDB(s.T())

	tokens, err := auth.NewJWT(testSecret, time.Hour, "")
	s.Require().NoError(err)

	s.repo = repository.NewUserRepository(db, nil)
	s.tokens = tokens
	s.UseCase = service.NewAuthService(s.repo, util.NewBcryptHasher(bcrypt.MinCost), tokens)
}

func TestAuthServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthServiceTestSuite))
}

func signUp(username, password string) *request.SignUpRequest {
	return &request.SignUpRequest{Username: username, Password: password}
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	user, err := s.UseCase.Register(context.Background(), signUp("alice", "password123"))

	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), user)
	assert.Equal(s.T(), "alice", user.Username)
	assert.NotZero(s.T(), user.ID)
}

func (s *AuthServiceTestSuite) TestRegister_StoresSaltedDigest() {
	ctx := context.Background()

	_, err := s.UseCase.Register(ctx, signUp("alice", "password123"))
	s.Require().NoError(err)
	_, err = s.UseCase.Register(ctx, signUp("bob_1", "password123"))
	s.Require().NoError(err)

	alice, _ := s.repo.GetByUsername(ctx, "alice")
	bob, _ := s.repo.GetByUsername(ctx, "bob_1")

	Expect(alice.EncryptedPassword).NotTo(Equal("password123"))
	Expect(alice.EncryptedPassword).NotTo(Equal(bob.EncryptedPassword))
	Expect(bcrypt.CompareHashAndPassword([]byte(alice.EncryptedPassword), []byte("password123"))).To(Succeed())
}

func (s *AuthServiceTestSuite) TestRegister_PasswordOverByteLimit() {
	_, err := s.UseCase.Register(context.Background(), signUp("alice", strings.Repeat("€", 30)))

	assert.True(s.T(), errors.Is(err, domain.ErrInvalidArgument))
	assert.Equal(s.T(), "password must be at most 72 bytes long", err.Error())

	_, err = s.repo.GetByUsername(context.Background(), "alice")
	assert.True(s.T(), errors.Is(err, domain.ErrNotFound))
}

func (s *AuthServiceTestSuite) TestRegister_UsernameTaken() {
	ctx := context.Background()

	_, err := s.UseCase.Register(ctx, signUp("alice", "password123"))
	assert.NoError(s.T(), err)

	_, err = s.UseCase.Register(ctx, signUp("alice", "different-password"))

	assert.True(s.T(), errors.Is(err, domain.ErrConflict))
	assert.Equal(s.T(), "username already exists", err.Error())
}

func (s *AuthServiceTestSuite) TestRegister_ConcurrentSameUsername() {
	const attempts = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.UseCase.Register(context.Background(), signUp("racer", "password123"))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		}()
	}

	wg.Wait()

	Expect(successes).To(Equal(1))
	Expect(conflicts).To(Equal(attempts - 1))
}

func (s *AuthServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()

	created, err := s.UseCase.Register(ctx, signUp("alice", "password123"))
	s.Require().NoError(err)

	result, err := s.UseCase.Authenticate(ctx, &request.LoginRequest{Username: "alice", Password: "password123"})

	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), result.AccessToken)

	principal, err := s.tokens.Verify(ctx, result.AccessToken)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.UUID, principal.UserUUID)
	assert.Equal(s.T(), "alice", principal.Username)
}

func (s *AuthServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()

	_, err := s.UseCase.Register(ctx, signUp("alice", "password123"))
	s.Require().NoError(err)

	_, err = s.UseCase.Authenticate(ctx, &request.LoginRequest{Username: "alice", Password: "password124"})

	assert.True(s.T(), errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(s.T(), domain.ErrInvalidCredentials, err)
}

func (s *AuthServiceTestSuite) TestAuthenticate_UnknownUserLooksTheSame() {
	_, err := s.UseCase.Authenticate(context.Background(), &request.LoginRequest{Username: "ghost", Password: "password123"})

	assert.True(s.T(), errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(s.T(), domain.ErrInvalidCredentials, err)
}
