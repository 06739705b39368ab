package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAddressFetchFailed  = errors.New("could not fetch user addresses")
	ErrInvalidAddress      = errors.New("address does not belong to user")
	ErrInvalidProduct      = errors.New("invalid product")
	ErrOrderCreateFailed   = errors.New("order service rejected creation")
	ErrOrderIDMissing      = errors.New("order service did not return an order id")
	ErrOrderNotFound       = errors.New("order not found")
	ErrForbidden           = errors.New("order does not belong to user")
	ErrCancelFailed        = errors.New("order service rejected cancellation")
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different payload")
)

// InvalidAddressError carries the ids the user could have picked, so the
// client can self-correct without a second lookup.
type InvalidAddressError struct {
	AddressID int
	Available []int
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("address %d does not belong to user, available: %v", e.AddressID, e.Available)
}

func (e *InvalidAddressError) Unwrap() error { return ErrInvalidAddress }

type InvalidProductError struct {
	ProductID int
	Status    int
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("product %d invalid (status %d)", e.ProductID, e.Status)
}

func (e *InvalidProductError) Unwrap() error { return ErrInvalidProduct }

// UpstreamError reports a non-2xx answer from a required collaborator call.
// Err classifies the failure with one of the sentinels above.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed with upstream status %d", e.Op, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
