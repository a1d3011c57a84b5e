package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"matching-workers/internal/matching"
)

func TestFromEngineError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"invalid feedback", fmt.Errorf("%w: \"meh\"", matching.ErrInvalidFeedback), ErrCodeInvalidFeedback, false},
		{"invalid skills", fmt.Errorf("%w: empty", matching.ErrInvalidSkills), ErrCodeInvalidSkills, false},
		{"invalid request", fmt.Errorf("%w: userId", matching.ErrInvalidRequest), ErrCodeInvalidInput, false},
		{"profile lookup", fmt.Errorf("%w: refused", matching.ErrProfileLookup), ErrCodeProfileLookupFailed, true},
		{"job lookup", fmt.Errorf("%w: refused", matching.ErrJobLookup), ErrCodeJobLookupFailed, true},
		{"persist", fmt.Errorf("%w: deadlock", matching.ErrMatchPersist), ErrCodeMatchPersistFailed, true},
		{"deadline", fmt.Errorf("scoring: %w", context.DeadlineExceeded), ErrCodeTimeout, true},
		{"unknown", stderrors.New("boom"), ErrCodeInternal, false},
		{"already standard", NewSearchQueryFailedError("job_postings", stderrors.New("503")), ErrCodeSearchQueryFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := FromEngineError(tt.err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.NotEmpty(t, stdErr.Details)
		})
	}
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidInput))
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidFeedback))
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidSkills))
	assert.Equal(t, 3, GetRetryCount(ErrCodeProfileLookupFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeJobLookupFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeMatchPersistFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeSearchQueryFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeInternal))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewSearchQueryFailedError("job_postings", stderrors.New("index_not_found"))
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "SEARCH_QUERY_FAILED", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.True(t, bpmnErr.Retryable)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "SEARCH_QUERY_FAILED", vars["errorCode"])
	assert.Equal(t, "SEARCH", vars["errorCategory"])
	assert.Equal(t, "job_postings", vars["index"])
	assert.Equal(t, "index_not_found", vars["errorDetails"])
}

func TestConvertToBPMNError_NonRetryable(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewInvalidFeedbackError("meh"))
	assert.Equal(t, "INVALID_FEEDBACK", bpmnErr.Code)
	assert.Zero(t, bpmnErr.Retries)
	assert.False(t, bpmnErr.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidSkills))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeProfileLookupFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeMatchPersistFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "INFRASTRUCTURE", GetErrorCategory(ErrCodeTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		budget     int
		jobRetries int32
		expected   int
	}{
		{budget: 3, jobRetries: 3, expected: 2},
		{budget: 3, jobRetries: 10, expected: 3},
		{budget: 3, jobRetries: 1, expected: 0},
		{budget: 0, jobRetries: 5, expected: 0},
		{budget: 2, jobRetries: 0, expected: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("budget=%d/job=%d", tt.budget, tt.jobRetries), func(t *testing.T) {
			assert.Equal(t, tt.expected, RemainingRetries(tt.budget, tt.jobRetries))
		})
	}
}
