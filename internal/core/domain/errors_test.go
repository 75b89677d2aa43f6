package domain

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
)

func TestErrors_Kinds(t *testing.T) {
	RegisterTestingT(t)

	Expect(errors.Is(ErrUsernameTaken, ErrConflict)).To(BeTrue())
	Expect(errors.Is(ErrInvalidCredentials, ErrUnauthorized)).To(BeTrue())
	Expect(errors.Is(NotFoundf("task %s", "x"), ErrNotFound)).To(BeTrue())
	Expect(errors.Is(InvalidArgumentf("bad"), ErrInvalidArgument)).To(BeTrue())
	Expect(errors.Is(Conflictf("dup"), ErrConflict)).To(BeTrue())
}

func TestErrors_InternalHidesCause(t *testing.T) {
	RegisterTestingT(t)

	cause := fmt.Errorf("insert users: %w", sql.ErrConnDone)
	err := Internal(cause)

	Expect(err.Error()).To(Equal("internal error"))
	Expect(errors.Is(err, ErrInternal)).To(BeTrue())
	Expect(errors.Is(err, sql.ErrConnDone)).To(BeTrue())
	Expect(Internal(err)).To(BeIdenticalTo(err))
}

func TestErrors_KindOf(t *testing.T) {
	RegisterTestingT(t)

	Expect(KindOf(ErrUsernameTaken)).To(Equal(ErrConflict))
	Expect(KindOf(fmt.Errorf("repo: %w", ErrNotFound))).To(Equal(ErrNotFound))
	Expect(KindOf(errors.New("boom"))).To(Equal(ErrInternal))
	Expect(KindOf(Internal(NotFoundf("hidden")))).To(Equal(ErrInternal))
}
