// internal/workers/matching/recommend-jobs/handler.go
package recommendjobs

import (
	"context"
	"time"

	"matching-workers/internal/common/camunda"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/validation"
	"matching-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-jobs"
)

type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
}

type Handler struct {
	config    *Config
	engine    Recommender
	validator *validation.Validator
	reporter  *camunda.JobReporter
	logger    logger.Logger
}

func NewHandler(config *Config, engine Recommender, validator *validation.Validator, reporter *camunda.JobReporter, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		engine:    engine,
		validator: validator,
		reporter:  reporter,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := h.validator.Decode(job.Variables, &input); err != nil {
		h.reporter.Fail(ctx, client, job, err, started)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(ctx, client, job, err, started)
		return
	}

	h.reporter.Complete(ctx, client, job, output, started)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	recs, err := h.engine.Recommend(ctx, input.UserID, input.Limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	return &Output{
		Recommendations: recs,
		Count:           len(recs),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
