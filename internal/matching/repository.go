// internal/matching/repository.go
package matching

import (
	"context"
	"errors"

	"matching-workers/internal/models"
)

// ErrNotFound is returned by readers and stores when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProfileReader gives read access to seeker profiles.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.JobSeekerProfile, error)
	// ListCandidates returns active job seekers with a non-empty skills field.
	ListCandidates(ctx context.Context) ([]models.JobSeekerProfile, error)
}

// JobReader gives read access to job postings.
type JobReader interface {
	GetJob(ctx context.Context, jobID string) (*models.JobPosting, error)
	ListActiveJobs(ctx context.Context) ([]models.JobPosting, error)
}

// MatchStore persists match records keyed by (userID, jobID).
type MatchStore interface {
	// UpsertMatch creates the record or replaces its score fields. Feedback is left untouched.
	UpsertMatch(ctx context.Context, rec *models.MatchRecord) error
	GetMatch(ctx context.Context, userID, jobID string) (*models.MatchRecord, error)
	// UpdateFeedback reports false when no record exists for the key.
	UpdateFeedback(ctx context.Context, userID, jobID string, feedback models.Feedback) (bool, error)
}
