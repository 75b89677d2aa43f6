package handler

import (
	"net/http"

	. "taskmanager/internal/adapter/http/helper"
	. "taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/model/request"
	"taskmanager/internal/core/model/response"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
	"taskmanager/internal/core/util"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc     port.AuthService
	metrics *telemetry.AppMetrics
}

func NewAuthHandler(svc port.AuthService, metrics *telemetry.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		metrics: metrics,
	}
}

func (a *AuthHandler) SignUp(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Register(ctx, &params)
	a.metrics.RecordUserOperation(ctx, "register", err)

	if err != nil {
		SendDomainError(c, "username", err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewUserResponse(*user))
}

func (a *AuthHandler) SignIn(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	token, err := a.svc.Authenticate(ctx, &params)
	a.metrics.RecordUserOperation(ctx, "authenticate", err)

	if err != nil {
		SendDomainError(c, "auth", err)
		return
	}

	c.JSON(http.StatusOK, token)
}
