package repository

import (
	"errors"
	"fmt"

	"github.com/phoebudget/phoebudget/pkg/domain"
	"gorm.io/gorm"
)

// mapGormError converts GORM errors to domain errors so that database
// concerns never leak past the infrastructure layer. The error chain is
// traversed because GORM wraps driver errors. Errors with no domain meaning
// are tagged as storage failures.
func mapGormError(err error) error {
	if err == nil {
		return nil
	}

	current := err
	for current != nil {
		switch {
		case errors.Is(current, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		}
		current = errors.Unwrap(current)
	}

	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}
