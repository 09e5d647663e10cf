// Package errors maps domain failures onto application error codes that the
// HTTP layer turns into status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"ordercore/domain/customer"
	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"
)

type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	CodeOrderNotFound          ErrorCode = "ORDER_NOT_FOUND"
	CodeOrderItemNotFound      ErrorCode = "ORDER_ITEM_NOT_FOUND"
	CodeProductNotFound        ErrorCode = "PRODUCT_NOT_FOUND"
	CodeCustomerNotFound       ErrorCode = "CUSTOMER_NOT_FOUND"
	CodeInvalidOrderState      ErrorCode = "INVALID_ORDER_STATE"
	CodeOrderNotEditable       ErrorCode = "ORDER_NOT_EDITABLE"
	CodeInsufficientStock      ErrorCode = "INSUFFICIENT_STOCK"
	CodeCustomerInactive       ErrorCode = "CUSTOMER_INACTIVE"
	CodeProductInactive        ErrorCode = "PRODUCT_INACTIVE"
	CodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeOrderNotFound, CodeOrderItemNotFound, CodeProductNotFound, CodeCustomerNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModification:
		return http.StatusConflict
	case CodeInvalidOrderState, CodeOrderNotEditable, CodeInsufficientStock, CodeCustomerInactive, CodeProductInactive:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError      { return New(CodeBadRequest, message) }
func NotFound(message string) *AppError        { return New(CodeNotFound, message) }
func Internal(message string) *AppError        { return New(CodeInternal, message) }
func Conflict(message string) *AppError        { return New(CodeConflict, message) }
func TooManyRequests(message string) *AppError { return New(CodeTooManyRequest, message) }
func Validation(message string) *AppError      { return New(CodeValidation, message) }

// Is reports whether err carries an AppError with code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// reasonCodes is checked in order; the first matching reason wins.
var reasonCodes = []struct {
	reason error
	code   ErrorCode
}{
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{order.ErrItemNotFound, CodeOrderItemNotFound},
	{product.ErrProductNotFound, CodeProductNotFound},
	{customer.ErrCustomerNotFound, CodeCustomerNotFound},
	{order.ErrConcurrentModification, CodeConcurrentModification},
	{product.ErrConcurrentModification, CodeConcurrentModification},
	{order.ErrOrderNotEditable, CodeOrderNotEditable},
	{order.ErrInvalidOrderState, CodeInvalidOrderState},
	{order.ErrStockUnavailable, CodeInsufficientStock},
	{product.ErrInsufficientStock, CodeInsufficientStock},
	{customer.ErrCustomerInactive, CodeCustomerInactive},
	{product.ErrProductInactive, CodeProductInactive},
}

// FromDomainError maps err by its reason sentinel first and by its kind
// second. Anything unrecognised becomes an internal error that keeps err.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		msg = domainErr.Message
	}

	for _, rc := range reasonCodes {
		if errors.Is(err, rc.reason) {
			return Wrap(err, rc.code, msg)
		}
	}

	switch {
	case errors.Is(err, shared.ErrValidation):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrStateConflict):
		return Wrap(err, CodeConflict, msg)
	}
	return Wrap(err, CodeInternal, "internal server error")
}
