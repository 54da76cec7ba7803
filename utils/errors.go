package utils

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorKind classifies an AppError independently of its HTTP mapping
type ErrorKind string

const (
	KindValidation             ErrorKind = "validation"
	KindAuthorization          ErrorKind = "authorization"
	KindNotFound               ErrorKind = "not_found"
	KindIncompletePayeeProfile ErrorKind = "incomplete_payee_profile"
	KindInvalidBankAccount     ErrorKind = "invalid_bank_account"
	KindInvalidBankCode        ErrorKind = "invalid_bank_code"
	KindInvalidAmount          ErrorKind = "invalid_amount"
	KindPersistence            ErrorKind = "persistence"
	KindUpstreamService        ErrorKind = "upstream_service"
	KindUnauthenticated        ErrorKind = "unauthenticated"
)

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by kind, so errors.Is(err, &AppError{Kind: KindNotFound}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Common error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Kind:    KindAuthorization,
		Code:    http.StatusForbidden,
		Message: message,
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthenticated,
		Code:    http.StatusUnauthorized,
		Message: message,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewIncompletePayeeProfileError() *AppError {
	return &AppError{
		Kind:    KindIncompletePayeeProfile,
		Code:    http.StatusBadRequest,
		Message: ErrIncompletePayeeProfile,
	}
}

func NewInvalidBankAccountError() *AppError {
	return &AppError{
		Kind:    KindInvalidBankAccount,
		Code:    http.StatusBadRequest,
		Message: ErrInvalidBankAccount,
	}
}

func NewInvalidBankCodeError() *AppError {
	return &AppError{
		Kind:    KindInvalidBankCode,
		Code:    http.StatusBadRequest,
		Message: ErrInvalidBankCode,
	}
}

func NewInvalidAmountError() *AppError {
	return &AppError{
		Kind:    KindInvalidAmount,
		Code:    http.StatusBadRequest,
		Message: ErrInvalidAmount,
	}
}

func NewPersistenceError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindPersistence,
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

func NewUpstreamServiceError(message string, details string, err error) *AppError {
	return &AppError{
		Kind:    KindUpstreamService,
		Code:    http.StatusBadGateway,
		Message: message,
		Details: details,
		Err:     err,
	}
}

// IsKind reports whether err is an AppError of the given kind anywhere in its chain
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// HandleError sends an appropriate HTTP response for an error
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			log.Printf("level=error component=http msg=%q kind=%s path=%s err=%v", appErr.Message, appErr.Kind, c.FullPath(), appErr.Err)
		}
		body := gin.H{"error": appErr.Message}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
		c.JSON(appErr.Code, body)
		return
	}

	log.Printf("level=error component=http msg=\"unhandled error\" path=%s err=%v", c.FullPath(), err)
	// Default to internal server error
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// HandleSuccess sends a success response
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// HandleCreated sends a 201 response
func HandleCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
