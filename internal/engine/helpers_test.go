package engine_test

import (
	"errors"

	"github.com/valida-go/valida/internal/engine"
)

func asValidationError(err error, target **engine.ValidationError) bool {
	return errors.As(err, target)
}
