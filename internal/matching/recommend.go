// internal/matching/recommend.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"matching-workers/internal/common/metrics"
	"matching-workers/internal/models"
)

// Recommend scores the seeker against every active posting, keeps postings
// above the recommendation floor, sorts them by matchScore descending and
// truncates to limit (limit <= 0 selects the default). Each returned posting
// is upserted as a MatchRecord; upsert failures are logged and do not fail
// the call.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	ctx, span := e.tracer.Start(ctx, "matching.Recommend", trace.WithAttributes(
		attribute.String("userId", userID),
		attribute.Int("limit", limit),
	))
	defer span.End()

	if limit <= 0 {
		limit = e.weights.DefaultLimit
	}

	profile, err := e.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.logger.Info("no profile for recommendation", map[string]interface{}{"userId": userID})
			return []models.Recommendation{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrProfileLookup, err)
	}
	if !profile.IsJobSeeker() {
		e.logger.Info("user is not a job seeker, skipping recommendation", map[string]interface{}{
			"userId": userID,
			"role":   profile.Role,
		})
		return []models.Recommendation{}, nil
	}
	if strings.TrimSpace(profile.Skills) == "" && strings.TrimSpace(profile.DesiredRoles) == "" {
		e.logger.Info("profile incomplete, skipping recommendation", map[string]interface{}{"userId": userID})
		return []models.Recommendation{}, nil
	}

	jobs, err := e.jobs.ListActiveJobs(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: list active jobs: %w", ErrJobLookup, err)
	}
	jobs = uniqueJobs(jobs)

	scores := make([]models.MatchScores, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for i := range jobs {
		i := i // per-iteration copy (go.mod targets go1.21)
		g.Go(func() error {
			scores[i] = e.scorer.Score(profile, &jobs[i])
			return nil
		})
	}
	_ = g.Wait()
	metrics.ScoresComputed.WithLabelValues("recommend").Add(float64(len(jobs)))

	recs := make([]models.Recommendation, 0, len(jobs))
	for i := range jobs {
		if scores[i].MatchScore > e.weights.RecommendationFloor {
			recs = append(recs, models.Recommendation{Job: jobs[i], Scores: scores[i]})
		}
	}

	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].Scores.MatchScore > recs[b].Scores.MatchScore
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}

	e.persist(ctx, userID, recs)

	metrics.RecommendationsReturned.Observe(float64(len(recs)))
	e.logger.Info("recommendations generated", map[string]interface{}{
		"userId":      userID,
		"activeJobs":  len(jobs),
		"returned":    len(recs),
		"limit":       limit,
		"floor":       e.weights.RecommendationFloor,
		"concurrency": e.concurrency,
	})
	span.SetAttributes(attribute.Int("returned", len(recs)))

	return recs, nil
}

// persist upserts one record per recommendation. It is best effort.
func (e *Engine) persist(ctx context.Context, userID string, recs []models.Recommendation) {
	now := time.Now().UTC()
	for _, rec := range recs {
		record := &models.MatchRecord{
			UserID:      userID,
			JobID:       rec.Job.ID,
			MatchScores: rec.Scores,
			UpdatedAt:   now,
		}
		if err := e.matches.UpsertMatch(ctx, record); err != nil {
			metrics.UpsertFailures.Inc()
			e.logger.Warn("failed to persist match record", map[string]interface{}{
				"userId": userID,
				"jobId":  rec.Job.ID,
				"error":  err.Error(),
			})
		}
	}
}

func uniqueJobs(jobs []models.JobPosting) []models.JobPosting {
	seen := make(map[string]bool, len(jobs))
	out := jobs[:0:0]
	for _, j := range jobs {
		if seen[j.ID] {
			continue
		}
		seen[j.ID] = true
		out = append(out, j)
	}
	return out
}
