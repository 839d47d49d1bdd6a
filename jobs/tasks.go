package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/agrogest/agrogest/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuthAudit persists an authentication audit event.
	TaskAuthAudit = "auth:audit"
)

// AuditPayload is the wire form of an audit record.
type AuditPayload struct {
	ActorID  string         `json:"actor_id,omitempty"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// NewAuditPayload converts an audit record into its queued form.
func NewAuditPayload(log shared.AuditLog) AuditPayload {
	return AuditPayload{
		ActorID:  log.ActorID,
		Action:   log.Action,
		Entity:   log.Entity,
		EntityID: log.EntityID,
		Meta:     log.Meta,
		At:       log.At,
	}
}

// AuditLog returns the record carried by the payload.
func (p AuditPayload) AuditLog() shared.AuditLog {
	return shared.AuditLog{
		ActorID:  p.ActorID,
		Action:   p.Action,
		Entity:   p.Entity,
		EntityID: p.EntityID,
		Meta:     p.Meta,
		At:       p.At,
	}
}

// NewAuditTask constructs an Asynq task.
func NewAuditTask(log shared.AuditLog) (*asynq.Task, error) {
	data, err := json.Marshal(NewAuditPayload(log))
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuthAudit, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}
