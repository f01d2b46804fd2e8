// Package jobs implements the job graph runtime (C2): durable jobs
// with type, payload, status, progress, and dedupe key, a single
// sequential polling scheduler with prerequisite gating, and a bounded
// event broadcast channel.
package jobs

import (
	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/domain"
)

// Event is the wire shape of a JobEvent: JobCompleted, JobFailed, or
// AnalysisComplete. Delivery is advisory only: clients must verify via
// polling and never rely solely on an event arriving.
type Event struct {
	Kind      domain.EditEvent `json:"kind"`
	JobID     uuid.UUID        `json:"job_id,omitempty"`
	JobType   string           `json:"job_type,omitempty"`
	AssetID   *uuid.UUID       `json:"asset_id,omitempty"`
	ProjectID *uuid.UUID       `json:"project_id,omitempty"`
	Readiness string           `json:"readiness,omitempty"`
	Message   string           `json:"message,omitempty"`
}
