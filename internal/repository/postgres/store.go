// internal/repository/postgres/store.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"matching-workers/internal/matching"
	"matching-workers/internal/models"
)

// Store reads profiles and postings from the marketplace schema and owns the
// job_matches table.
type Store struct {
	db *sql.DB
}

var (
	_ matching.ProfileReader = (*Store)(nil)
	_ matching.JobReader     = (*Store)(nil)
	_ matching.MatchStore    = (*Store)(nil)
)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const profileColumns = `
		id, COALESCE(name, ''), COALESCE(role, ''), is_active,
		COALESCE(skills, ''), COALESCE(desired_roles, ''),
		COALESCE(experience_level, ''), COALESCE(preferred_location, '')`

const jobColumns = `
		id, COALESCE(title, ''), COALESCE(description, ''), COALESCE(requirements, ''),
		COALESCE(category, ''), COALESCE(required_skills, ''), COALESCE(benefits, ''),
		COALESCE(company, ''), COALESCE(location, ''), is_active`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row scanner) (*models.JobSeekerProfile, error) {
	var p models.JobSeekerProfile
	err := row.Scan(&p.UserID, &p.Name, &p.Role, &p.IsActive,
		&p.Skills, &p.DesiredRoles, &p.ExperienceLevel, &p.PreferredLocation)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanJob(row scanner) (*models.JobPosting, error) {
	var j models.JobPosting
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Requirements,
		&j.Category, &j.RequiredSkills, &j.Benefits, &j.Company, &j.Location, &j.IsActive)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*models.JobSeekerProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+profileColumns+`
		FROM users WHERE id = $1`, userID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, matching.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", userID, err)
	}
	return p, nil
}

// ListCandidates returns active job seekers with a non-empty skills attribute.
func (s *Store) ListCandidates(ctx context.Context) ([]models.JobSeekerProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT`+profileColumns+`
		FROM users
		WHERE role = $1 AND is_active = true AND TRIM(COALESCE(skills, '')) <> ''
		ORDER BY id`, models.RoleJobSeeker)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var profiles []models.JobSeekerProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*models.JobPosting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+jobColumns+`
		FROM job_postings WHERE id = $1`, jobID)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, matching.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query job %s: %w", jobID, err)
	}
	return j, nil
}

func (s *Store) ListActiveJobs(ctx context.Context) ([]models.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT`+jobColumns+`
		FROM job_postings
		WHERE is_active = true
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobPosting
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// UpsertMatch inserts or refreshes the scores of the (user, job) record.
// user_feedback and created_at are left untouched on conflict.
func (s *Store) UpsertMatch(ctx context.Context, rec *models.MatchRecord) error {
	now := rec.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_matches (
			id, user_id, job_id, match_score, skill_match, location_match, role_match,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, job_id) DO UPDATE SET
			match_score = EXCLUDED.match_score,
			skill_match = EXCLUDED.skill_match,
			location_match = EXCLUDED.location_match,
			role_match = EXCLUDED.role_match,
			updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), rec.UserID, rec.JobID,
		rec.MatchScore, rec.SkillMatch, rec.LocationMatch, rec.RoleMatch,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert match %s/%s: %w", rec.UserID, rec.JobID, err)
	}
	return nil
}

func (s *Store) GetMatch(ctx context.Context, userID, jobID string) (*models.MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, job_id, match_score, skill_match, location_match, role_match,
			user_feedback, created_at, updated_at
		FROM job_matches WHERE user_id = $1 AND job_id = $2`, userID, jobID)

	var rec models.MatchRecord
	var feedback sql.NullString
	err := row.Scan(&rec.ID, &rec.UserID, &rec.JobID,
		&rec.MatchScore, &rec.SkillMatch, &rec.LocationMatch, &rec.RoleMatch,
		&feedback, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, matching.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query match %s/%s: %w", userID, jobID, err)
	}
	if feedback.Valid {
		fb := models.Feedback(feedback.String)
		rec.UserFeedback = &fb
	}
	return &rec, nil
}

// UpdateFeedback reports false when no record exists for the pair.
func (s *Store) UpdateFeedback(ctx context.Context, userID, jobID string, feedback models.Feedback) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE job_matches
		SET user_feedback = $3, updated_at = $4
		WHERE user_id = $1 AND job_id = $2`,
		userID, jobID, string(feedback), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update feedback %s/%s: %w", userID, jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update feedback rows affected: %w", err)
	}
	return n > 0, nil
}
