package apperrors

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned when a webhook payload fails signature
// verification. No order state is mutated in that case.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrStorageUnavailable is returned when the backing store cannot be reached.
// Writes are abandoned, not retried inline.
var ErrStorageUnavailable = errors.New("storage unavailable")

// NotFoundError indicates a missing product or order.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for the given resource and id.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError indicates a malformed client request, e.g. a cart item with
// quantity < 1.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with a formatted message.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PaymentGatewayError indicates the payment provider rejected a request or was
// unreachable. Detail carries the provider's own message where available.
type PaymentGatewayError struct {
	Detail string
	Err    error
}

func (e *PaymentGatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("payment gateway: %s", e.Detail)
}

func (e *PaymentGatewayError) Unwrap() error {
	return e.Err
}

// IsPaymentGateway reports whether err is (or wraps) a PaymentGatewayError.
func IsPaymentGateway(err error) bool {
	var pe *PaymentGatewayError
	return errors.As(err, &pe)
}
