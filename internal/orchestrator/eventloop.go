package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
)

// RunProactiveLoop subscribes to the job event bus and, on each
// AnalysisComplete, generates an assistant message so a client can be
// told readiness advanced without polling. It exits when ctx is
// cancelled or the event channel closes.
func (o *Orchestrator) RunProactiveLoop(ctx context.Context) {
	events, unsubscribe := o.Jobs.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind != domain.EventAnalysisComplete || ev.ProjectID == nil {
				continue
			}
			o.announce(ctx, *ev.ProjectID)
		}
	}
}

func (o *Orchestrator) announce(ctx context.Context, projectID uuid.UUID) {
	p, err := computePreconditions(ctx, o.Store, projectID)
	if err != nil {
		return
	}
	mode := decideMode(p, Request{})
	_, _ = o.reply(ctx, projectID, mode, "analysis_complete", p, nil)
}
