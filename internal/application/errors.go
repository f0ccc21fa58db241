// Package application contains use-case orchestration services.
package application

import (
	"errors"
	"fmt"
)

// ErrValidation marks input rejected by a service. Driving adapters map it
// to a client error.
var ErrValidation = errors.New("validation failed")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
