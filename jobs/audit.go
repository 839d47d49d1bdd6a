package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/agrogest/agrogest/internal/jobs"
	"github.com/agrogest/agrogest/internal/shared"
)

// AuditJob writes queued audit events through a recorder.
type AuditJob struct {
	Recorder shared.AuditRecorder
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewAuditJob wires dependencies for the audit handler.
func NewAuditJob(recorder shared.AuditRecorder, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditJob {
	return &AuditJob{Recorder: recorder, Logger: logger, Metrics: metrics}
}

// Handle processes TaskAuthAudit tasks. Undecodable or incomplete payloads
// are dropped without retry.
func (j *AuditJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Recorder == nil {
		return errors.New("audit job: handler not configured")
	}
	var payload AuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Warn("audit payload rejected", slog.Any("error", err))
		return fmt.Errorf("decode audit payload: %w", asynq.SkipRetry)
	}
	log := payload.AuditLog()
	if err := log.Validate(); err != nil {
		j.logger().Warn("audit payload rejected", slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskAuthAudit)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if err := j.Recorder.Record(ctx, log); err != nil {
		j.logger().Error("record audit event",
			slog.String("action", log.Action),
			slog.String("entity_id", log.EntityID),
			slog.Any("error", err))
		return err
	}
	return nil
}

func (j *AuditJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
