// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"matching-workers/internal/matching"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidFeedback ErrorCode = "INVALID_FEEDBACK"
	ErrCodeInvalidSkills   ErrorCode = "INVALID_SKILLS"

	ErrCodeProfileLookupFailed ErrorCode = "PROFILE_LOOKUP_FAILED"
	ErrCodeJobLookupFailed     ErrorCode = "JOB_LOOKUP_FAILED"
	ErrCodeMatchPersistFailed  ErrorCode = "MATCH_PERSIST_FAILED"
	ErrCodeSearchQueryFailed   ErrorCode = "SEARCH_QUERY_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: GetRetryCount(code) > 0,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError is raised when job variables cannot be parsed or fail schema validation.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details)
}

func NewInvalidFeedbackError(details string) *StandardError {
	return newError(ErrCodeInvalidFeedback, "Feedback must be thumbs_up or thumbs_down", details)
}

func NewInvalidSkillsError(details string) *StandardError {
	return newError(ErrCodeInvalidSkills, "At least one skill is required", details)
}

func NewProfileLookupFailedError(err error) *StandardError {
	return newError(ErrCodeProfileLookupFailed, "Failed to load job seeker profiles", err.Error())
}

func NewJobLookupFailedError(err error) *StandardError {
	return newError(ErrCodeJobLookupFailed, "Failed to load job postings", err.Error())
}

func NewMatchPersistFailedError(err error) *StandardError {
	return newError(ErrCodeMatchPersistFailed, "Failed to persist match record", err.Error())
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	e := newError(ErrCodeSearchQueryFailed, fmt.Sprintf("Search on index '%s' failed", index), err.Error())
	e.Metadata = map[string]interface{}{"index": index}
	return e
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection failed", err.Error())
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error())
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error())
}

// FromEngineError classifies an error returned by the matching engine.
// Errors that are already a StandardError are returned unchanged.
func FromEngineError(err error) *StandardError {
	var stdErr *StandardError
	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError("matching", err)
	case stderrors.Is(err, matching.ErrInvalidFeedback):
		return NewInvalidFeedbackError(err.Error())
	case stderrors.Is(err, matching.ErrInvalidSkills):
		return NewInvalidSkillsError(err.Error())
	case stderrors.Is(err, matching.ErrInvalidRequest):
		return NewInvalidInputError(err.Error())
	case stderrors.Is(err, matching.ErrProfileLookup):
		return NewProfileLookupFailedError(err)
	case stderrors.Is(err, matching.ErrJobLookup):
		return NewJobLookupFailedError(err)
	case stderrors.Is(err, matching.ErrMatchPersist):
		return NewMatchPersistFailedError(err)
	default:
		return newError(ErrCodeInternal, "Unexpected error", err.Error())
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileLookupFailed,
		ErrCodeJobLookupFailed,
		ErrCodeMatchPersistFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeTimeout:
		return 2

	default:
		return 0 // validation errors are never retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN error codes are identical to the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorCategory":     GetErrorCategory(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "JOB_LOOKUP") ||
		strings.Contains(codeStr, "PERSIST") || strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "EXTERNAL"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
