// internal/matching/engine.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/models"
)

const tracerName = "matching-workers/matching"

var (
	ErrInvalidRequest  = errors.New("INVALID_REQUEST")
	ErrInvalidFeedback = errors.New("INVALID_FEEDBACK")
	ErrInvalidSkills   = errors.New("INVALID_SKILLS")
	ErrProfileLookup   = errors.New("PROFILE_LOOKUP_FAILED")
	ErrJobLookup       = errors.New("JOB_LOOKUP_FAILED")
	ErrMatchPersist    = errors.New("MATCH_PERSIST_FAILED")
)

// Engine is the matching and recommendation engine.
type Engine struct {
	profiles    ProfileReader
	jobs        JobReader
	matches     MatchStore
	scorer      *Scorer
	weights     Weights
	concurrency int
	validate    *validator.Validate
	tracer      trace.Tracer
	logger      logger.Logger
}

type Option func(*Engine)

func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w.WithDefaults()
		e.scorer = NewScorer(e.weights)
	}
}

// WithConcurrency bounds the number of goroutines scoring a single request.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

func NewEngine(profiles ProfileReader, jobs JobReader, matches MatchStore, log logger.Logger, opts ...Option) *Engine {
	weights := DefaultWeights()
	e := &Engine{
		profiles:    profiles,
		jobs:        jobs,
		matches:     matches,
		scorer:      NewScorer(weights),
		weights:     weights,
		concurrency: runtime.GOMAXPROCS(0),
		validate:    validator.New(),
		tracer:      otel.Tracer(tracerName),
		logger:      log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Weights() Weights {
	return e.weights
}

// ComputeMatch scores one profile against one posting. A missing profile or
// posting yields the zero tuple without error.
func (e *Engine) ComputeMatch(ctx context.Context, userID, jobID string) (models.MatchScores, error) {
	ctx, span := e.tracer.Start(ctx, "matching.ComputeMatch", trace.WithAttributes(
		attribute.String("userId", userID),
		attribute.String("jobId", jobID),
	))
	defer span.End()

	profile, err := e.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.logger.Debug("profile not found, returning zero scores", map[string]interface{}{"userId": userID})
			return models.MatchScores{}, nil
		}
		span.RecordError(err)
		return models.MatchScores{}, fmt.Errorf("%w: %w", ErrProfileLookup, err)
	}

	job, err := e.jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.logger.Debug("job not found, returning zero scores", map[string]interface{}{"jobId": jobID})
			return models.MatchScores{}, nil
		}
		span.RecordError(err)
		return models.MatchScores{}, fmt.Errorf("%w: %w", ErrJobLookup, err)
	}

	scores := e.scorer.Score(profile, job)
	metrics.ScoresComputed.WithLabelValues("pairwise").Inc()

	span.SetAttributes(attribute.Int("matchScore", scores.MatchScore))
	return scores, nil
}
