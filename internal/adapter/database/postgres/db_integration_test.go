//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"taskmanager/internal/adapter/database"
	"taskmanager/internal/adapter/database/postgres"
	"taskmanager/internal/adapter/database/repository"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	"taskmanager/pkg/test/factory"
)

type PostgresRepositoryTestSuite struct {
	suite.Suite
	container testcontainers.Container
	db        *database.DB
	tasks     port.TaskRepository
	users     port.UserRepository
}

func (s *PostgresRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "testdb",
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	s.Require().NoError(err)

	host, err := container.Host(ctx)
	s.Require().NoError(err)

	mapped, err := container.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	url := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, mapped.Port())

	db, err := postgres.Open(ctx, postgres.Config{URL: url})
	s.Require().NoError(err)

	s.container = container
	s.db = db
	s.tasks = repository.NewTaskRepository(db, nil)
	s.users = repository.NewUserRepository(db, nil)
}

func (s *PostgresRepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}

	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	_, err := s.db.ExecContext(context.Background(), "TRUNCATE tasks, users RESTART IDENTITY")
	s.Require().NoError(err)
}

func TestPostgresRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func (s *PostgresRepositoryTestSuite) TestUsers_DuplicateUsernameIsConflict() {
	ctx := context.Background()

	_, err := s.users.Create(ctx, factory.NewUser(map[string]any{"Username": "alice"}))
	assert.NoError(s.T(), err)

	_, err = s.users.Create(ctx, factory.NewUser(map[string]any{"Username": "alice"}))
	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *PostgresRepositoryTestSuite) TestTasks_Lifecycle() {
	ctx := context.Background()

	created, err := s.tasks.Create(ctx, factory.NewTask(map[string]any{"Title": "50% off_sale"}))
	s.Require().NoError(err)
	s.Assert().NotZero(created.ID)

	found, err := s.tasks.FindAll(ctx, domain.TaskFilter{Search: "% OFF_"})
	s.Require().NoError(err)
	Expect(found).To(HaveLen(1))

	created.Status = domain.TaskStatusDone
	updated, err := s.tasks.UpdateStatusByUUID(ctx, created)
	s.Require().NoError(err)
	Expect(updated.Status).To(Equal(domain.TaskStatusDone))

	s.Require().NoError(s.tasks.DeleteByUUID(ctx, created.UUID.String()))

	err = s.tasks.DeleteByUUID(ctx, created.UUID.String())
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}
