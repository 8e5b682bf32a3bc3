package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"helpconnect/internal/repository"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrAuth            = errors.New("authentication failed")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrOperationFailed = errors.New("operation failed")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError translates a repository failure into the service error kinds.
// Unclassified failures are logged and reported without their details.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return fmt.Errorf("%w: username already taken", ErrConflict)
	case errors.Is(err, repository.ErrEmailTaken):
		return fmt.Errorf("%w: email already registered", ErrConflict)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	logrus.WithError(err).WithField("op", op).Error("store operation failed")
	return fmt.Errorf("%w: %s", ErrOperationFailed, op)
}
