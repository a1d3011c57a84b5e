package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/matching"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return client
}

// ==========================
// GetJob
// ==========================

func TestJobReader_GetJob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/job_postings/_doc/job-1", r.URL.Path)
		io.WriteString(w, `{
			"_index": "job_postings",
			"_id": "job-1",
			"found": true,
			"_source": {
				"title": "Delivery Driver",
				"requiredSkills": "Driving",
				"company": "Acme",
				"isActive": true
			}
		}`)
	})
	reader := NewJobReader(client, "job_postings", 0, logger.NewTestLogger(t))

	job, err := reader.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, "Delivery Driver", job.Title)
	assert.Equal(t, "Driving", job.RequiredSkills)
	assert.True(t, job.IsActive)
}

func TestJobReader_GetJob_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"_index":"job_postings","_id":"gone","found":false}`)
	})
	reader := NewJobReader(client, "job_postings", 0, logger.NewTestLogger(t))

	_, err := reader.GetJob(context.Background(), "gone")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestJobReader_GetJob_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"type":"illegal_argument_exception"},"status":400}`)
	})
	reader := NewJobReader(client, "job_postings", 0, logger.NewTestLogger(t))

	_, err := reader.GetJob(context.Background(), "job-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, matching.ErrNotFound)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, stdErr.Code)
}

// ==========================
// ListActiveJobs
// ==========================

func TestJobReader_ListActiveJobs(t *testing.T) {
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job_postings/_search", r.URL.Path)
		assert.Equal(t, "250", r.URL.Query().Get("size"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		io.WriteString(w, `{
			"took": 3,
			"hits": {
				"total": {"value": 2, "relation": "eq"},
				"hits": [
					{"_id": "job-1", "_source": {"title": "Driver", "isActive": true}},
					{"_id": "job-2", "_source": {"id": "posting-2", "title": "Cook", "isActive": true}}
				]
			}
		}`)
	})
	reader := NewJobReader(client, "job_postings", 250, logger.NewTestLogger(t))

	jobs, err := reader.ListActiveJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-1", jobs[0].ID)
	assert.Equal(t, "posting-2", jobs[1].ID, "_source id wins over _id")

	query := body["query"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"isActive": true}, query["term"])
}

func TestJobReader_ListActiveJobs_DefaultSize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000", r.URL.Query().Get("size"))
		io.WriteString(w, `{"hits": {"total": {"value": 0}, "hits": []}}`)
	})
	reader := NewJobReader(client, "job_postings", 0, logger.NewTestLogger(t))

	jobs, err := reader.ListActiveJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobReader_ListActiveJobs_IndexMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})
	reader := NewJobReader(client, "job_postings", 0, logger.NewTestLogger(t))

	_, err := reader.ListActiveJobs(context.Background())
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "index_not_found_exception")
	assert.Equal(t, "job_postings", stdErr.Metadata["index"])
}
