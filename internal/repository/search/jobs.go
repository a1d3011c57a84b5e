// internal/repository/search/jobs.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/matching"
	"matching-workers/internal/models"
)

const DefaultMaxPostings = 1000

// JobReader reads job postings from an Elasticsearch index whose documents
// use the JSON field names of models.JobPosting.
type JobReader struct {
	client      *elasticsearch.Client
	index       string
	maxPostings int
	logger      logger.Logger
}

var _ matching.JobReader = (*JobReader)(nil)

func NewJobReader(client *elasticsearch.Client, index string, maxPostings int, log logger.Logger) *JobReader {
	if maxPostings <= 0 {
		maxPostings = DefaultMaxPostings
	}
	return &JobReader{
		client:      client,
		index:       index,
		maxPostings: maxPostings,
		logger:      log.WithFields(map[string]interface{}{"component": "job-search", "index": index}),
	}
}

type hit struct {
	ID     string            `json:"_id"`
	Source models.JobPosting `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

func (h hit) posting() models.JobPosting {
	job := h.Source
	if job.ID == "" {
		job.ID = h.ID
	}
	return job
}

func (r *JobReader) GetJob(ctx context.Context, jobID string) (*models.JobPosting, error) {
	req := esapi.GetRequest{Index: r.index, DocumentID: jobID}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(r.index, fmt.Errorf("get job %s: %w", jobID, err))
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, matching.ErrNotFound
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(r.index, fmt.Errorf("get job %s: %s", jobID, res.String()))
	}

	var doc hit
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	job := doc.posting()
	return &job, nil
}

// ListActiveJobs returns at most maxPostings postings with isActive = true.
func (r *JobReader) ListActiveJobs(ctx context.Context) ([]models.JobPosting, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"isActive": true},
		},
		"sort": []interface{}{"_doc"},
	})
	if err != nil {
		return nil, err
	}

	size := r.maxPostings
	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(r.index, fmt.Errorf("search active jobs: %w", err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(r.index, fmt.Errorf("search active jobs: %s", res.String()))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if sr.Hits.Total.Value > int64(len(sr.Hits.Hits)) {
		r.logger.Warn("active postings truncated", map[string]interface{}{
			"total":    sr.Hits.Total.Value,
			"returned": len(sr.Hits.Hits),
		})
	}

	jobs := make([]models.JobPosting, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		jobs = append(jobs, h.posting())
	}
	return jobs, nil
}
