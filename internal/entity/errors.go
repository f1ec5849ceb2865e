package entity

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Error carries a client-facing message and unwraps to one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(message string) error { return NewError(ErrValidation, message) }

func NotFound(message string) error { return NewError(ErrNotFound, message) }

func Conflict(message string) error { return NewError(ErrConflict, message) }

// QuotaError is returned when the Membership Gate rejects a submission.
type QuotaError struct {
	Decision QuotaDecision
}

const QuotaMessage = "Regular users can only submit 1 product. Upgrade to premium to submit unlimited products."

func (e *QuotaError) Error() string {
	return fmt.Sprintf("product limit reached: %d of %d", e.Decision.CurrentCount, e.Decision.Limit)
}

func (e *QuotaError) Unwrap() error {
	return ErrForbidden
}

type CouponReason string

const (
	CouponNotFound  CouponReason = "not_found"
	CouponInactive  CouponReason = "inactive"
	CouponExpired   CouponReason = "expired"
	CouponExhausted CouponReason = "exhausted_uses"
)

var couponMessages = map[CouponReason]string{
	CouponNotFound:  "Coupon not found",
	CouponInactive:  "Coupon is not active",
	CouponExpired:   "Coupon has expired",
	CouponExhausted: "Coupon usage limit reached",
}

type CouponError struct {
	Reason CouponReason
}

func NewCouponError(reason CouponReason) *CouponError {
	return &CouponError{Reason: reason}
}

func (e *CouponError) Error() string {
	return couponMessages[e.Reason]
}

func (e *CouponError) Unwrap() error {
	if e.Reason == CouponNotFound {
		return ErrNotFound
	}
	return ErrValidation
}
