package handler

import (
	"net/http"

	. "taskmanager/internal/adapter/http/helper"
	. "taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/adapter/logger"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/request"
	"taskmanager/internal/core/model/response"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
	"taskmanager/internal/core/util"
	. "taskmanager/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TaskHandler struct {
	svc     port.TaskService
	Logger  *logger.LokiLogger
	metrics *telemetry.AppMetrics
}

func NewTaskHandler(svc port.TaskService, log *logger.LokiLogger, metrics *telemetry.AppMetrics) *TaskHandler {
	return &TaskHandler{
		svc:     svc,
		Logger:  log,
		metrics: metrics,
	}
}

func (t *TaskHandler) span(c *gin.Context, operation string) (trace.Span, func(err error)) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task."+operation,
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
		attribute.String("user.id", c.GetString("x-user-id")),
	)

	c.Request = c.Request.WithContext(ctx)

	return span, func(err error) {
		t.metrics.RecordTaskOperation(ctx, operation, err)

		if err != nil {
			AddSpanError(span, err)

			if domain.KindOf(err) == domain.ErrInternal {
				t.Logger.Error(ctx, "Task operation failed",
					zap.String("operation", operation),
					zap.Error(err),
				)
			}
		}

		span.End()
	}
}

func (t *TaskHandler) List(c *gin.Context) {
	span, end := t.span(c, "list")

	params, err := util.QueryToMap[request.TaskFilterRequest](c)

	if err != nil {
		end(nil)
		SendBadRequestError(c, "query", "Invalid query parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		end(nil)
		SendValidationError(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("task.filter.status", params.Status),
		attribute.Bool("task.filter.search", params.Search != ""),
	)

	tasks, err := t.svc.List(c.Request.Context(), domain.TaskFilter{
		Status: domain.TaskStatus(params.Status),
		Search: params.Search,
	})
	end(err)

	if err != nil {
		SendDomainError(c, "status", err)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))

	SendSuccess(c, http.StatusOK, response.NewTaskListResponse(tasks))
}

func (t *TaskHandler) Get(c *gin.Context) {
	_, end := t.span(c, "get")

	task, err := t.svc.GetByID(c.Request.Context(), c.Param("id"))
	end(err)

	if err != nil {
		SendDomainError(c, "id", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) Create(c *gin.Context) {
	_, end := t.span(c, "create")

	params, err := util.ParamsToMap[request.CreateTaskRequest](c)

	if err != nil {
		end(nil)
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		end(nil)
		SendValidationError(c, err)
		return
	}

	task := domain.Task{
		Title:       *params.Title,
		Description: *params.Description,
	}

	if params.Status != nil {
		task.Status = domain.TaskStatus(*params.Status)
	}

	task, err = t.svc.Create(c.Request.Context(), task)
	end(err)

	if err != nil {
		SendDomainError(c, "status", err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewTaskResponse(task))
}

func (t *TaskHandler) UpdateStatus(c *gin.Context) {
	_, end := t.span(c, "update_status")

	params, err := util.ParamsToMap[request.UpdateTaskStatusRequest](c)

	if err != nil {
		end(nil)
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		end(nil)
		SendValidationError(c, err)
		return
	}

	task, err := t.svc.UpdateStatus(c.Request.Context(), c.Param("id"), domain.TaskStatus(params.Status))
	end(err)

	if err != nil {
		SendDomainError(c, "id", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) Delete(c *gin.Context) {
	_, end := t.span(c, "delete")

	err := t.svc.Delete(c.Request.Context(), c.Param("id"))
	end(err)

	if err != nil {
		SendDomainError(c, "id", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
