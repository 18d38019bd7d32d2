// Package errors provides custom error types for Kassets
package errors

import (
	"fmt"
	"net/http"
)

// KassetsError is the base interface for all Kassets errors
type KassetsError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of KassetsError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// DuplicateSlugError means a company name collides with an existing
// company's derived slug.
type DuplicateSlugError struct {
	BaseError
	Slug string
}

func NewDuplicateSlugError(slug string) *DuplicateSlugError {
	return &DuplicateSlugError{
		BaseError: BaseError{
			Message:    "a company with a similar name already exists",
			StatusCode: http.StatusConflict,
			ErrorCode:  "DUPLICATE_SLUG",
		},
		Slug: slug,
	}
}

// DuplicateUsernameError means the username already exists platform-wide.
type DuplicateUsernameError struct {
	BaseError
	Username string
}

func NewDuplicateUsernameError(username string) *DuplicateUsernameError {
	return &DuplicateUsernameError{
		BaseError: BaseError{
			Message:    "username already exists",
			StatusCode: http.StatusConflict,
			ErrorCode:  "DUPLICATE_USERNAME",
		},
		Username: username,
	}
}

// DuplicateCategoryNameError means the target category name already exists
// within the company.
type DuplicateCategoryNameError struct {
	BaseError
	Name string
}

func NewDuplicateCategoryNameError(name string) *DuplicateCategoryNameError {
	return &DuplicateCategoryNameError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("category %q already exists", name),
			StatusCode: http.StatusConflict,
			ErrorCode:  "DUPLICATE_CATEGORY",
		},
		Name: name,
	}
}

// ReferentialIntegrityError means a delete was blocked because dependent
// records still exist.
type ReferentialIntegrityError struct {
	BaseError
	Dependents int
}

func NewReferentialIntegrityError(message string, dependents int) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusConflict,
			ErrorCode:  "HAS_DEPENDENTS",
		},
		Dependents: dependents,
	}
}

// PermissionDeniedError represents a permission denied error
type PermissionDeniedError struct {
	BaseError
	Action string
}

func NewPermissionDeniedError(action string) *PermissionDeniedError {
	return &PermissionDeniedError{
		BaseError: BaseError{
			Message:    "permission denied",
			StatusCode: http.StatusForbidden,
			ErrorCode:  "PERMISSION_DENIED",
		},
		Action: action,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	BaseError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "VALIDATION_ERROR",
		},
		Field: field,
	}
}
