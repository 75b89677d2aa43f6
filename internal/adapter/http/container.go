package http

import (
	"taskmanager/internal/adapter/auth"
	"taskmanager/internal/adapter/database"
	"taskmanager/internal/adapter/database/repository"
	"taskmanager/internal/adapter/http/handler"
	"taskmanager/internal/adapter/logger"
	"taskmanager/internal/config"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/service"
	"taskmanager/internal/core/telemetry"
	"taskmanager/internal/core/util"
)

type Container struct {
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository

	AuthUseCase port.AuthService
	TaskUseCase port.TaskService

	Tokens port.TokenManager

	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func NewContainer(db *database.DB, cfg *config.AppConfig, log *logger.LokiLogger, metrics *telemetry.AppMetrics, probe port.Telemetry) (*Container, error) {
	tokens, err := auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db, probe)
	taskRepo := repository.NewTaskRepository(db, probe)

	authSvc := service.NewAuthService(userRepo, util.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	taskSvc := service.NewTaskService(taskRepo)

	return &Container{
		UserRepo: userRepo,
		TaskRepo: taskRepo,

		AuthUseCase: authSvc,
		TaskUseCase: taskSvc,

		Tokens: tokens,

		AuthHandler:   handler.NewAuthHandler(authSvc, metrics),
		TaskHandler:   handler.NewTaskHandler(taskSvc, log, metrics),
		HealthHandler: handler.NewHealthHandler(db),
	}, nil
}
