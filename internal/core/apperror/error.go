// Package apperror defines the error type every layer returns upward.
// Handlers never build error responses themselves; the error
// middleware renders the AppError it finds in the chain.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes. Clients branch on these, so they are
// part of the API contract.
const (
	CodeInternal = "INTERNAL_ERROR"

	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeZeroCoefficients  = "ZERO_COEFFICIENT_SUM"
	CodePaymentSettled    = "PAYMENT_ALREADY_SETTLED"
	CodeInactiveReference = "INACTIVE_REFERENCE"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"

	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"

	// Conflicts (409)
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeMainInventoryExists    = "MAIN_INVENTORY_EXISTS"
	CodeRestrictDelete         = "RESTRICT_DELETE"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// AppError carries a code, a client-safe message and structured
// details. The wrapped cause stays server-side.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds one key to the details map.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the underlying error for logging.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule builds a 422 with one of the business rule codes.
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewZeroCoefficients reports a fee that cannot be split because every
// apartment coefficient for the chosen basis is zero.
func NewZeroCoefficients(basis string) *AppError {
	return &AppError{
		Code:       CodeZeroCoefficients,
		Message:    "fee cannot be distributed: coefficient sum is zero",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"payment_basis": basis},
	}
}

// NewInsufficientFunds reports a withdrawal or transfer exceeding the
// source inventory balance.
func NewInsufficientFunds(inventoryID, required, available string) *AppError {
	return &AppError{
		Code:       CodeInsufficientFunds,
		Message:    "insufficient funds in inventory",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"inventory_id": inventoryID,
			"required":     required,
			"available":    available,
		},
	}
}

// NewMainInventoryExists reports an attempt to create a second main
// inventory for a building.
func NewMainInventoryExists(buildingID any) *AppError {
	return &AppError{
		Code:       CodeMainInventoryExists,
		Message:    "building already has a main inventory",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"building_id": buildingID},
	}
}

// NewRestrictDelete reports a delete blocked by referencing rows.
func NewRestrictDelete(entity string, id any, referencedBy string) *AppError {
	return &AppError{
		Code:       CodeRestrictDelete,
		Message:    fmt.Sprintf("%s is still referenced by %s and cannot be deleted", entity, referencedBy),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id, "referenced_by": referencedBy},
	}
}

// NewConcurrentModification reports a lost optimistic-lock race.
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal wraps an unexpected error; the client sees only a
// generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// IsAppError reports whether the chain contains an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts the AppError from the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether the error is a not-found.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsConflict reports whether the error maps to 409, whatever the code.
func IsConflict(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus == http.StatusConflict
	}
	return false
}
