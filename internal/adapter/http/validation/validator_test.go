package validation

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"taskmanager/internal/core/model/request"
)

func ptr(s string) *string {
	return &s
}

func TestValidator_SignUp(t *testing.T) {
	RegisterTestingT(t)

	err := Validator.Struct(request.SignUpRequest{Username: "abc", Password: "short"})
	errs := FormatValidationErrors(err)

	Expect(errs).To(HaveLen(2))
	Expect(errs[0].Field).To(Equal("username"))
	Expect(errs[0].Message).To(Equal("username must be at least 4 characters long"))
	Expect(errs[1].Field).To(Equal("password"))

	Expect(Validator.Struct(request.SignUpRequest{Username: "alice", Password: "password123"})).To(Succeed())
}

func TestValidator_PasswordByteLimit(t *testing.T) {
	RegisterTestingT(t)

	err := Validator.Struct(request.SignUpRequest{Username: "alice", Password: strings.Repeat("a", 73)})

	Expect(FormatValidationErrors(err)).To(HaveLen(1))

	// 30 runes, 90 bytes
	wide := FormatValidationErrors(Validator.Struct(request.SignUpRequest{Username: "alice", Password: strings.Repeat("€", 30)}))
	Expect(wide).To(HaveLen(1))
	Expect(wide[0].Field).To(Equal("password"))
	Expect(wide[0].Message).To(Equal("password must be at most 72 bytes long"))

	Expect(Validator.Struct(request.SignUpRequest{Username: "alice", Password: strings.Repeat("€", 24)})).To(Succeed())
	Expect(Validator.Struct(request.LoginRequest{Username: "alice", Password: strings.Repeat("€", 25)})).NotTo(Succeed())
}

func TestValidator_CreateTask(t *testing.T) {
	RegisterTestingT(t)

	Expect(Validator.Struct(request.CreateTaskRequest{Title: ptr(""), Description: ptr("")})).To(Succeed())

	missing := FormatValidationErrors(Validator.Struct(request.CreateTaskRequest{Title: ptr("x")}))
	Expect(missing).To(HaveLen(1))
	Expect(missing[0].Field).To(Equal("description"))
	Expect(missing[0].Message).To(Equal("description is a required field"))

	badStatus := FormatValidationErrors(Validator.Struct(request.CreateTaskRequest{
		Title:       ptr("x"),
		Description: ptr("y"),
		Status:      ptr("LATER"),
	}))
	Expect(badStatus).To(HaveLen(1))
	Expect(badStatus[0].Message).To(Equal("status must be one of: OPEN, IN_PROGRESS, DONE"))
}

func TestFormatValidationErrors_IgnoresOtherErrors(t *testing.T) {
	RegisterTestingT(t)

	Expect(FormatValidationErrors(nil)).To(BeEmpty())
}
