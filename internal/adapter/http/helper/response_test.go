package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/response"
)

func sendDomain(err error) (*httptest.ResponseRecorder, response.ErrorResponse) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SendDomainError(c, "task", err)

	var body response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &body)

	return w, body
}

func TestSendDomainError_MapsKinds(t *testing.T) {
	RegisterTestingT(t)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.InvalidArgumentf("invalid status: x"), http.StatusBadRequest, "BAD_REQUEST"},
		{domain.NotFoundf("task with id %q not found", "1"), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUsernameTaken, http.StatusConflict, "CONFLICT"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.Internal(errors.New("disk on fire")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("unclassified"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		w, body := sendDomain(tt.err)

		Expect(w.Code).To(Equal(tt.status))
		Expect(body.Error.Code).To(Equal(tt.code))
		Expect(body.Error.Errors).To(HaveLen(1))
	}
}

func TestSendDomainError_HidesInternalCause(t *testing.T) {
	RegisterTestingT(t)

	w, body := sendDomain(domain.Internal(errors.New("password=hunter2")))

	Expect(w.Body.String()).NotTo(ContainSubstring("hunter2"))
	Expect(body.Error.Errors[0].Message).To(Equal("internal error"))
}

func TestSendTooManyRequestsError(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendTooManyRequestsError(c, 5, time.Minute, timeNowPlus(30))

	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	Expect(w.Header().Get("Retry-After")).NotTo(BeEmpty())
	Expect(w.Body.String()).To(ContainSubstring("RATE_LIMITED"))
}

func timeNowPlus(seconds int) time.Time {
	return time.Now().Add(time.Duration(seconds) * time.Second)
}
