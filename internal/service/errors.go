package service

import (
	"errors"
	"fmt"

	"medicart/internal/repository"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidState   = errors.New("invalid state")
	ErrNotEnoughStock = errors.New("not enough stock")
	ErrForbidden      = errors.New("Not enough permissions")
	ErrUnauthorized   = errors.New("Could not validate credentials")

	ErrPrescriptionRequired = errors.New("A verified prescription is required for this order")
	ErrEmailTaken           = errors.New("Email already registered")
	ErrInvalidCredentials   = errors.New("Incorrect email or password")
	ErrNotImage             = errors.New("Only image files are allowed")
)

// InsufficientStockError names the medicine that could not cover the order
type InsufficientStockError struct {
	Name      string
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.Name, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrNotEnoughStock }

// invalid wraps ErrInvalidInput with a message that is safe to show to the caller
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func notFound(entity string, id uint) error {
	return fmt.Errorf("%s %d %w", entity, id, repository.ErrNotFound)
}
