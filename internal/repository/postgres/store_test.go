package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/matching"
	"matching-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var (
	profileRowColumns = []string{"id", "name", "role", "is_active", "skills", "desired_roles", "experience_level", "preferred_location"}
	jobRowColumns     = []string{"id", "title", "description", "requirements", "category", "required_skills", "benefits", "company", "location", "is_active"}
	matchRowColumns   = []string{"id", "user_id", "job_id", "match_score", "skill_match", "location_match", "role_match", "user_feedback", "created_at", "updated_at"}
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewStore(db), mock
}

// ==========================
// Profiles
// ==========================

func TestStore_GetProfile(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow("user-1", "Ada", "jobseeker", true, "Driving, Navigation", "Delivery Driver", "Senior", "Any Location"))

	p, err := store.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, &models.JobSeekerProfile{
		UserID:            "user-1",
		Name:              "Ada",
		Role:              models.RoleJobSeeker,
		IsActive:          true,
		Skills:            "Driving, Navigation",
		DesiredRoles:      "Delivery Driver",
		ExperienceLevel:   "Senior",
		PreferredLocation: models.AnyLocation,
	}, p)
}

func TestStore_GetProfile_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestStore_GetProfile_DatabaseError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnError(errors.New("connection refused"))

	_, err := store.GetProfile(context.Background(), "user-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, matching.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStore_ListCandidates(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users\s+WHERE role = \$1 AND is_active = true`).
		WithArgs(models.RoleJobSeeker).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow("c1", "One", "jobseeker", true, "Driving", "", "Senior", "").
			AddRow("c2", "Two", "jobseeker", true, "Welding", "Welder", "", ""))

	profiles, err := store.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "c1", profiles[0].UserID)
	assert.Equal(t, "Welder", profiles[1].DesiredRoles)
}

// ==========================
// Postings
// ==========================

func TestStore_GetJob(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM job_postings WHERE id = \$1`).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(jobRowColumns).
			AddRow("job-1", "Delivery Driver", "Drive a van", "License", "Logistics", "Driving", "Fuel card", "Acme", "Any Location", true))

	j, err := store.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Delivery Driver", j.Title)
	assert.Equal(t, "Driving", j.RequiredSkills)
	assert.True(t, j.IsActive)
}

func TestStore_GetJob_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM job_postings WHERE id = \$1`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetJob(context.Background(), "gone")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestStore_ListActiveJobs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM job_postings\s+WHERE is_active = true`).
		WillReturnRows(sqlmock.NewRows(jobRowColumns).
			AddRow("job-1", "Driver", "", "", "", "", "", "", "", true).
			AddRow("job-2", "Cook", "", "", "", "", "", "", "", true))

	jobs, err := store.ListActiveJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-2", jobs[1].ID)
}

func TestStore_ListActiveJobs_ScanError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM job_postings\s+WHERE is_active = true`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("job-1"))

	_, err := store.ListActiveJobs(context.Background())
	assert.Error(t, err)
}

// ==========================
// Match records
// ==========================

func TestStore_UpsertMatch(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO job_matches .* ON CONFLICT \(user_id, job_id\) DO UPDATE SET`).
		WithArgs(sqlmock.AnyArg(), "user-1", "job-1", 88, 75, 0, 100, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpsertMatch(context.Background(), &models.MatchRecord{
		UserID:      "user-1",
		JobID:       "job-1",
		MatchScores: models.MatchScores{MatchScore: 88, SkillMatch: 75, RoleMatch: 100},
		UpdatedAt:   now,
	})
	assert.NoError(t, err)
}

func TestStore_UpsertMatch_DoesNotTouchFeedback(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO job_matches`).
		WithArgs(sqlmock.AnyArg(), "user-1", "job-1", 50, 100, 0, 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertMatch(context.Background(), &models.MatchRecord{
		UserID: "user-1", JobID: "job-1",
		MatchScores: models.MatchScores{MatchScore: 50, SkillMatch: 100},
	}))
}

func TestStore_UpsertMatch_Error(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO job_matches`).
		WillReturnError(errors.New("unique violation"))

	err := store.UpsertMatch(context.Background(), &models.MatchRecord{UserID: "u", JobID: "j"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "u/j")
}

func TestStore_GetMatch(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM job_matches WHERE user_id = \$1 AND job_id = \$2`).
		WithArgs("user-1", "job-1").
		WillReturnRows(sqlmock.NewRows(matchRowColumns).
			AddRow("m-1", "user-1", "job-1", 88, 75, 0, 100, "thumbs_up", created, created))

	rec, err := store.GetMatch(context.Background(), "user-1", "job-1")
	require.NoError(t, err)
	assert.Equal(t, "m-1", rec.ID)
	assert.Equal(t, models.MatchScores{MatchScore: 88, SkillMatch: 75, RoleMatch: 100}, rec.MatchScores)
	require.NotNil(t, rec.UserFeedback)
	assert.Equal(t, models.FeedbackThumbsUp, *rec.UserFeedback)
}

func TestStore_GetMatch_NullFeedback(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`FROM job_matches`).
		WithArgs("user-1", "job-1").
		WillReturnRows(sqlmock.NewRows(matchRowColumns).
			AddRow("m-1", "user-1", "job-1", 50, 100, 0, 0, nil, created, created))

	rec, err := store.GetMatch(context.Background(), "user-1", "job-1")
	require.NoError(t, err)
	assert.Nil(t, rec.UserFeedback)
}

func TestStore_GetMatch_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM job_matches`).
		WithArgs("user-1", "job-1").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetMatch(context.Background(), "user-1", "job-1")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestStore_UpdateFeedback(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		expected bool
	}{
		{name: "record exists", affected: 1, expected: true},
		{name: "no record", affected: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)

			mock.ExpectExec(`UPDATE job_matches\s+SET user_feedback = \$3`).
				WithArgs("user-1", "job-1", "thumbs_down", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := store.UpdateFeedback(context.Background(), "user-1", "job-1", models.FeedbackThumbsDown)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestStore_UpdateFeedback_Error(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE job_matches`).
		WillReturnError(errors.New("deadlock detected"))

	ok, err := store.UpdateFeedback(context.Background(), "user-1", "job-1", models.FeedbackThumbsUp)
	assert.Error(t, err)
	assert.False(t, ok)
}
