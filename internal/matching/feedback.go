// internal/matching/feedback.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"matching-workers/internal/common/metrics"
	"matching-workers/internal/models"
)

// FeedbackRequest identifies the match record a reaction is attached to.
type FeedbackRequest struct {
	UserID   string          `validate:"required"`
	JobID    string          `validate:"required"`
	Feedback models.Feedback `validate:"required,oneof=thumbs_up thumbs_down"`
}

// RecordFeedback stores feedback on the existing (userID, jobID) match record.
// It returns false without error when no record exists; a reaction never
// creates a record. Invalid input is rejected before any storage call.
func (e *Engine) RecordFeedback(ctx context.Context, req FeedbackRequest) (bool, error) {
	ctx, span := e.tracer.Start(ctx, "matching.RecordFeedback")
	defer span.End()

	if err := e.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Feedback" {
					return false, fmt.Errorf("%w: %q is not one of %s, %s",
						ErrInvalidFeedback, string(req.Feedback), models.FeedbackThumbsUp, models.FeedbackThumbsDown)
				}
			}
		}
		return false, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	updated, err := e.matches.UpdateFeedback(ctx, req.UserID, req.JobID, req.Feedback)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("%w: %w", ErrMatchPersist, err)
	}

	metrics.FeedbackRecorded.WithLabelValues(string(req.Feedback), strconv.FormatBool(updated)).Inc()
	if !updated {
		e.logger.Info("no match record for feedback, ignoring", map[string]interface{}{
			"userId":   req.UserID,
			"jobId":    req.JobID,
			"feedback": req.Feedback,
		})
		return false, nil
	}

	e.logger.Info("feedback recorded", map[string]interface{}{
		"userId":   req.UserID,
		"jobId":    req.JobID,
		"feedback": req.Feedback,
	})
	return true, nil
}
