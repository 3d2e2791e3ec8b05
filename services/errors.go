package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/weekly-menu/models"
)

var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOfferingNotFound    = errors.New("menu offering not found")
	ErrDishNotFound        = errors.New("dish not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrDuplicateSubmission = errors.New("order already submitted with this idempotency key")
	ErrTransitionForbidden = errors.New("status transition not allowed")
	ErrStatusChanged       = errors.New("order status changed by another update")
)

// PersistenceError means the backing store did not accept a read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation separates input problems the customer can fix from infrastructure failures.
func IsValidation(err error) bool {
	var vf models.ValidationFailure
	return errors.As(err, &vf)
}
