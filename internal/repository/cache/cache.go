// internal/repository/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/matching"
	"matching-workers/internal/models"
)

const (
	profileKeyPrefix = "matching:profile:"
	activeJobsKey    = "matching:jobs:active"

	familyProfile    = "profile"
	familyActiveJobs = "active_jobs"
)

// Config holds the TTL of each key family. A zero TTL bypasses the cache for
// that family.
type Config struct {
	ProfileTTL    time.Duration
	ActiveJobsTTL time.Duration
}

// Readers is a read-through Redis cache in front of a profile reader and a
// job reader. Redis failures are logged and fall through to the wrapped
// readers; not-found results are never cached.
type Readers struct {
	profiles matching.ProfileReader
	jobs     matching.JobReader
	redis    redis.Cmdable
	config   Config
	logger   logger.Logger
}

var (
	_ matching.ProfileReader = (*Readers)(nil)
	_ matching.JobReader     = (*Readers)(nil)
)

func New(profiles matching.ProfileReader, jobs matching.JobReader, rdb redis.Cmdable, cfg Config, log logger.Logger) *Readers {
	return &Readers{
		profiles: profiles,
		jobs:     jobs,
		redis:    rdb,
		config:   cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "matching-cache"}),
	}
}

func ProfileKey(userID string) string {
	return profileKeyPrefix + userID
}

func (r *Readers) GetProfile(ctx context.Context, userID string) (*models.JobSeekerProfile, error) {
	if r.config.ProfileTTL <= 0 {
		return r.profiles.GetProfile(ctx, userID)
	}

	key := ProfileKey(userID)
	var cached models.JobSeekerProfile
	if r.load(ctx, familyProfile, key, &cached) {
		return &cached, nil
	}

	p, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, p, r.config.ProfileTTL)
	return p, nil
}

// ListCandidates is not cached; scout scans are rare and must see fresh profiles.
func (r *Readers) ListCandidates(ctx context.Context) ([]models.JobSeekerProfile, error) {
	return r.profiles.ListCandidates(ctx)
}

func (r *Readers) GetJob(ctx context.Context, jobID string) (*models.JobPosting, error) {
	return r.jobs.GetJob(ctx, jobID)
}

func (r *Readers) ListActiveJobs(ctx context.Context) ([]models.JobPosting, error) {
	if r.config.ActiveJobsTTL <= 0 {
		return r.jobs.ListActiveJobs(ctx)
	}

	var cached []models.JobPosting
	if r.load(ctx, familyActiveJobs, activeJobsKey, &cached) {
		return cached, nil
	}

	jobs, err := r.jobs.ListActiveJobs(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, activeJobsKey, jobs, r.config.ActiveJobsTTL)
	return jobs, nil
}

// InvalidateProfile drops the cached profile of userID.
func (r *Readers) InvalidateProfile(ctx context.Context, userID string) error {
	return r.redis.Del(ctx, ProfileKey(userID)).Err()
}

func (r *Readers) load(ctx context.Context, family, key string, dest interface{}) bool {
	val, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues(family, "miss").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues(family, "error").Inc()
			r.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheLookups.WithLabelValues(family, "error").Inc()
		r.logger.Warn("cache entry undecodable", map[string]interface{}{"key": key, "error": err})
		return false
	}
	metrics.CacheLookups.WithLabelValues(family, "hit").Inc()
	return true
}

func (r *Readers) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
