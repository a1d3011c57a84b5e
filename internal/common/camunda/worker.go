// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

// Worker is an open job subscription for one task type.
type Worker struct {
	worker   worker.JobWorker
	taskType string
	logger   logger.Logger
}

// StartWorker opens a job worker for opts.TaskType.
func StartWorker(client zbc.Client, opts WorkerOptions, handler worker.JobHandler, log logger.Logger) *Worker {
	step := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(handler)
	if opts.MaxJobsActive > 0 {
		step = step.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}

	w := &Worker{
		worker:   step.Open(),
		taskType: opts.TaskType,
		logger:   log.WithFields(map[string]interface{}{"taskType": opts.TaskType}),
	}
	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return w
}

func (w *Worker) TaskType() string {
	return w.taskType
}

// Stop closes the subscription and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// Recorder receives job outcome measurements. *observability.Observability
// satisfies it.
type Recorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

// JobReporter completes or fails jobs on the broker and records the outcome
// in the worker metrics.
type JobReporter struct {
	taskType string
	errors   *errors.ErrorHandler
	recorder Recorder
	retry    *RetryConfig
	logger   logger.Logger
}

// NewJobReporter builds a reporter for taskType. recorder may be nil.
func NewJobReporter(taskType string, recorder Recorder, log logger.Logger) *JobReporter {
	l := log.WithFields(map[string]interface{}{"taskType": taskType})
	return &JobReporter{
		taskType: taskType,
		errors:   errors.NewErrorHandler(l),
		recorder: recorder,
		retry:    DefaultRetryConfig,
		logger:   l,
	}
}

// Complete sends the job's output variables to the broker.
func (r *JobReporter) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, started time.Time) {
	err := Retry(ctx, r.retry, "complete-job", func(ctx context.Context) error {
		cmd, err := client.NewCompleteJobCommand().
			JobKey(job.Key).
			VariablesFromObject(output)
		if err != nil {
			return err
		}
		_, err = cmd.Send(ctx)
		return err
	})
	if err != nil {
		r.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		r.observe(ctx, "failed", string(errors.ErrCodeExternalService), started)
		return
	}

	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"duration": time.Since(started).String(),
	})
	r.observe(ctx, "completed", "", started)
}

// Fail reports err to the broker, either failing the job with retries or
// throwing a BPMN error.
func (r *JobReporter) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time) {
	bpmnErr := r.errors.HandleJobError(ctx, client, job, err)
	r.observe(ctx, "failed", bpmnErr.Code, started)
}

func (r *JobReporter) observe(ctx context.Context, status, errorCode string, started time.Time) {
	elapsed := time.Since(started)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	if status == "completed" {
		metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	} else {
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, errorCode).Inc()
	}

	if r.recorder != nil {
		r.recorder.RecordJobProcessed(ctx, r.taskType, status)
		r.recorder.RecordJobDuration(ctx, r.taskType, elapsed, status)
	}
}
