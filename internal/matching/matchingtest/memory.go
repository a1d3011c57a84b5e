// Package matchingtest provides an in-memory repository for engine and worker tests.
package matchingtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"matching-workers/internal/matching"
	"matching-workers/internal/models"
)

// MemoryStore implements matching.ProfileReader, matching.JobReader and
// matching.MatchStore over maps. Error fields, when set, are returned by the
// corresponding methods.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.JobSeekerProfile
	order    []string
	jobs     []models.JobPosting
	matches  map[string]models.MatchRecord

	ProfileErr  error
	JobsErr     error
	UpsertErr   error
	FeedbackErr error

	UpsertCalls   int
	FeedbackCalls int
}

var (
	_ matching.ProfileReader = (*MemoryStore)(nil)
	_ matching.JobReader     = (*MemoryStore)(nil)
	_ matching.MatchStore    = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]models.JobSeekerProfile),
		matches:  make(map[string]models.MatchRecord),
	}
}

func (s *MemoryStore) AddProfile(p models.JobSeekerProfile) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; !ok {
		s.order = append(s.order, p.UserID)
	}
	s.profiles[p.UserID] = p
	return s
}

func (s *MemoryStore) AddJob(j models.JobPosting) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	return s
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*models.JobSeekerProfile, error) {
	if s.ProfileErr != nil {
		return nil, s.ProfileErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, matching.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListCandidates(_ context.Context) ([]models.JobSeekerProfile, error) {
	if s.ProfileErr != nil {
		return nil, s.ProfileErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.JobSeekerProfile
	for _, id := range s.order {
		p := s.profiles[id]
		if p.IsActive && p.IsJobSeeker() && strings.TrimSpace(p.Skills) != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetJob(_ context.Context, jobID string) (*models.JobPosting, error) {
	if s.JobsErr != nil {
		return nil, s.JobsErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == jobID {
			job := j
			return &job, nil
		}
	}
	return nil, matching.ErrNotFound
}

func (s *MemoryStore) ListActiveJobs(_ context.Context) ([]models.JobPosting, error) {
	if s.JobsErr != nil {
		return nil, s.JobsErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.JobPosting
	for _, j := range s.jobs {
		if j.IsActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpsertMatch(_ context.Context, rec *models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpsertCalls++
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	key := matchKey(rec.UserID, rec.JobID)
	now := time.Now().UTC()
	existing, ok := s.matches[key]
	if !ok {
		existing = models.MatchRecord{
			ID:        uuid.New().String(),
			UserID:    rec.UserID,
			JobID:     rec.JobID,
			CreatedAt: now,
		}
	}
	existing.MatchScores = rec.MatchScores
	existing.UpdatedAt = now
	s.matches[key] = existing
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, userID, jobID string) (*models.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.matches[matchKey(userID, jobID)]
	if !ok {
		return nil, matching.ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) UpdateFeedback(_ context.Context, userID, jobID string, feedback models.Feedback) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FeedbackCalls++
	if s.FeedbackErr != nil {
		return false, s.FeedbackErr
	}
	key := matchKey(userID, jobID)
	rec, ok := s.matches[key]
	if !ok {
		return false, nil
	}
	fb := feedback
	rec.UserFeedback = &fb
	s.matches[key] = rec
	return true, nil
}

// Matches returns a snapshot of every record held for userID, keyed by job id.
func (s *MemoryStore) Matches(userID string) map[string]models.MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.MatchRecord)
	for _, rec := range s.matches {
		if rec.UserID == userID {
			out[rec.JobID] = rec
		}
	}
	return out
}

func matchKey(userID, jobID string) string {
	return userID + "\x00" + jobID
}
