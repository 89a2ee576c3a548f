package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden     ErrorType = "FORBIDDEN"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeUnprocessable ErrorType = "UNPROCESSABLE"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal      ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidValue     ErrorCode = "INVALID_VALUE"

	ErrCodeCompanyNotFound      ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeInvalidTariff        ErrorCode = "INVALID_TARIFF"
	ErrCodeOutstandingPostpay   ErrorCode = "OUTSTANDING_POSTPAY"
	ErrCodePostpayNotAvailable  ErrorCode = "POSTPAY_NOT_AVAILABLE"
	ErrCodeInvalidCard          ErrorCode = "INVALID_CARD"
	ErrCodePaymentNotAllowed    ErrorCode = "PAYMENT_METHOD_NOT_ALLOWED"
	ErrCodeInsufficientFunds    ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodePostpayLimitExceeded ErrorCode = "POSTPAY_LIMIT_EXCEEDED"

	ErrCodeEmployeeNotFound  ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeDocumentNotFound  ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeDuplicateEmployee ErrorCode = "DUPLICATE_EMPLOYEE"

	ErrCodeFlightNotFound ErrorCode = "FLIGHT_NOT_FOUND"

	ErrCodeTripNotFound      ErrorCode = "TRIP_NOT_FOUND"
	ErrCodeNoPassengers      ErrorCode = "NO_PASSENGERS"
	ErrCodeNoItems           ErrorCode = "NO_ITEMS"
	ErrCodePolicyBlocked     ErrorCode = "POLICY_BLOCKED"
	ErrCodeInvalidTripStatus ErrorCode = "INVALID_TRIP_STATUS"

	ErrCodeNothingToExport ErrorCode = "NOTHING_TO_EXPORT"

	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidRole        ErrorCode = "INVALID_ROLE"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches by code so wrapped copies of a sentinel still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy carrying cause; sentinels are shared and must not be mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewUnprocessableError is for requests that are well formed but break a business rule.
func NewUnprocessableError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnprocessable,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrCompanyNotFound      = NewNotFoundError("Company not found", ErrCodeCompanyNotFound)
	ErrInvalidTariff        = NewValidationError("Unknown tariff", ErrCodeInvalidTariff)
	ErrOutstandingPostpay   = NewConflictError("Postpay debt must be settled before leaving a postpay tariff", ErrCodeOutstandingPostpay)
	ErrPostpayNotAvailable  = NewUnprocessableError("Postpay is not available on the current tariff", ErrCodePostpayNotAvailable)
	ErrInvalidCard          = NewValidationError("Card number is invalid", ErrCodeInvalidCard)
	ErrPaymentNotAllowed    = NewUnprocessableError("Payment method is not allowed for this company", ErrCodePaymentNotAllowed)
	ErrInsufficientFunds    = NewUnprocessableError("Insufficient balance", ErrCodeInsufficientFunds)
	ErrPostpayLimitExceeded = NewUnprocessableError("Postpay limit exceeded", ErrCodePostpayLimitExceeded)

	ErrEmployeeNotFound  = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrDocumentNotFound  = NewNotFoundError("Document not found", ErrCodeDocumentNotFound)
	ErrDuplicateEmployee = NewConflictError("Employee with this email already exists", ErrCodeDuplicateEmployee)

	ErrFlightNotFound = NewNotFoundError("Flight not found", ErrCodeFlightNotFound)

	ErrTripNotFound      = NewNotFoundError("Trip not found", ErrCodeTripNotFound)
	ErrNoPassengers      = NewValidationError("At least one passenger is required", ErrCodeNoPassengers)
	ErrNoItems           = NewValidationError("At least one item is required", ErrCodeNoItems)
	ErrPolicyBlocked     = NewUnprocessableError("Travel policy blocks this booking", ErrCodePolicyBlocked)
	ErrInvalidTripStatus = NewConflictError("Trip cannot change from its current status", ErrCodeInvalidTripStatus)

	ErrNothingToExport = NewNotFoundError("No trips match the export filter", ErrCodeNothingToExport)

	ErrNotificationNotFound = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)

	ErrUnauthorizedAccess = NewForbiddenError("Insufficient permissions", ErrCodeUnauthorizedAccess)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrEmailTaken         = NewConflictError("Email is already registered", ErrCodeEmailTaken)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrInvalidRole        = NewValidationError("Unknown role", ErrCodeInvalidRole)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
