package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Handlers map these to HTTP statuses
// with errors.Is; everything else is a 500.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
