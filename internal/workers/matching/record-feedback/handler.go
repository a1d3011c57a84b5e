// internal/workers/matching/record-feedback/handler.go
package recordfeedback

import (
	"context"
	"time"

	"matching-workers/internal/common/camunda"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/validation"
	"matching-workers/internal/matching"
	"matching-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "record-feedback"
)

type FeedbackRecorder interface {
	RecordFeedback(ctx context.Context, req matching.FeedbackRequest) (bool, error)
}

type Handler struct {
	config    *Config
	engine    FeedbackRecorder
	validator *validation.Validator
	reporter  *camunda.JobReporter
	logger    logger.Logger
}

func NewHandler(config *Config, engine FeedbackRecorder, validator *validation.Validator, reporter *camunda.JobReporter, log logger.Logger) *Handler {
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
	recorded, err := h.engine.RecordFeedback(ctx, matching.FeedbackRequest{
		UserID:   input.UserID,
		JobID:    input.JobID,
		Feedback: models.Feedback(input.Feedback),
	})
	if err != nil {
		return nil, err
	}
	return &Output{Recorded: recorded}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
