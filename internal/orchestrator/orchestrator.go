package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/readiness"
	"github.com/vibecut/daemon/internal/retrieval"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/timeline"
)

// maxHistoryTurns bounds the conversation window fed to the LLM
// message generator; the full log stays in the store for audit.
const maxHistoryTurns = 20

// reasonCandidateCap is the maximum number of candidates sent to the
// external narrative-reasoning service in one call.
const reasonCandidateCap = 20

type Orchestrator struct {
	Store     *store.Store
	Jobs      *jobs.Manager
	ML        *mlclient.Client
	Retrieval retrieval.Backend
}

// Propose evaluates the current mode and, on Act, runs a retrieval
// pass and narrative-reasoning call over the resulting candidates. On
// TalkAnalyze or Busy it schedules the missing readiness work itself
// rather than making the caller poll first.
func (o *Orchestrator) Propose(ctx context.Context, projectID uuid.UUID, req Request) (*Envelope, error) {
	p, err := computePreconditions(ctx, o.Store, projectID)
	if err != nil {
		return nil, err
	}
	mode := decideMode(p, req)

	switch mode {
	case modeTalkAnalyze:
		if _, err := readiness.EnsureReady(ctx, o.Store, o.Jobs, projectID, domain.GoalSegmented); err != nil {
			return nil, err
		}
		return o.reply(ctx, projectID, mode, "analysis_requested", p, nil)
	case modeBusy:
		if _, err := readiness.EnsureReady(ctx, o.Store, o.Jobs, projectID, domain.GoalEmbedded); err != nil {
			return nil, err
		}
		return o.reply(ctx, projectID, mode, "busy", p, nil)
	case modeTalkImport, modeTalkConfirm, modeTalkClarify:
		return o.reply(ctx, projectID, mode, "intent_received", p, nil)
	}

	goal, err := o.Store.StartGoal(ctx, projectID, req.Intent)
	if err != nil {
		return nil, err
	}

	result, err := o.Retrieval.Search(ctx, retrieval.Query{ProjectID: projectID, Text: req.Intent, TopK: reasonCandidateCap})
	if err != nil {
		return nil, err
	}
	candidates := retrieval.Diversify(result.Candidates, reasonCandidateCap)
	if len(candidates) == 0 {
		return o.reply(ctx, projectID, modeTalkClarify, "no_candidates", p, nil)
	}

	reasonSegments := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		reasonSegments = append(reasonSegments, map[string]any{
			"segment_id":   c.SegmentID,
			"asset_id":     c.AssetID,
			"similarity":   c.Similarity,
			"summary_text": c.SummaryText,
		})
	}
	reasoned, err := o.ML.Reason(ctx, mlclient.ReasonRequest{Segments: reasonSegments})
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]any{"candidates": candidates, "narrative_structure": reasoned.NarrativeStructure})
	if _, err := o.Store.AppendMessage(ctx, projectID, domain.RoleAssistant, "proposal generated", datatypes.JSON(payload)); err != nil {
		return nil, err
	}
	if err := o.Store.UpdateGoalStatus(ctx, goal.ID, domain.GoalStatusProposed); err != nil {
		return nil, err
	}

	env, err := o.reply(ctx, projectID, modeAct, "proposal_ready", p, map[string]any{
		"candidates":          candidates,
		"narrative_structure": reasoned.NarrativeStructure,
		"debug":               result.Debug,
	})
	return env, err
}

// Plan calls the external plan-generation endpoint with the given
// beats and constraints, persists the result, and advances the active
// goal to planned.
func (o *Orchestrator) Plan(ctx context.Context, projectID uuid.UUID, beats []string, constraints any, narrative any, styleProfileID *string) (*Envelope, error) {
	goal, err := o.Store.GetActiveGoal(ctx, projectID)
	if err != nil {
		return nil, err
	}

	plan, err := o.ML.GeneratePlan(ctx, mlclient.GeneratePlanRequest{
		Beats:              beats,
		Constraints:        constraints,
		NarrativeStructure: narrative,
		StyleProfileID:     styleProfileID,
	})
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(plan)
	if _, err := o.Store.AppendMessage(ctx, projectID, domain.RoleAssistant, "plan generated", datatypes.JSON(payload)); err != nil {
		return nil, err
	}
	if err := o.Store.UpdateGoalStatus(ctx, goal.ID, domain.GoalStatusPlanned); err != nil {
		return nil, err
	}

	p, err := computePreconditions(ctx, o.Store, projectID)
	if err != nil {
		return nil, err
	}
	return o.reply(ctx, projectID, modeAct, "plan_ready", p, map[string]any{"plan": plan})
}

// Apply translates the given plan into a batch of timeline operations and persists the resulting timeline. If the
// current timeline already has clips, applying without a
// confirm_token returns TalkConfirm instead of overwriting it.
func (o *Orchestrator) Apply(ctx context.Context, projectID uuid.UUID, plan *mlclient.GeneratePlanResponse, req Request) (*Envelope, error) {
	p, err := computePreconditions(ctx, o.Store, projectID)
	if err != nil {
		return nil, err
	}

	current, err := o.Store.GetCurrentTimeline(ctx, projectID)
	hasClips := false
	var tl *timeline.Timeline
	switch {
	case err == nil:
		tl, err = timeline.Unmarshal(current.Blob)
		if err != nil {
			return nil, err
		}
		for _, t := range tl.Tracks {
			if len(t.Clips) > 0 {
				hasClips = true
				break
			}
		}
	case errors.Is(err, store.ErrNotFound):
		tl = timeline.New(timeline.Settings{TicksPerSecond: 48000})
	default:
		return nil, err
	}

	if hasClips && req.ConfirmToken == "" {
		return o.reply(ctx, projectID, modeTalkConfirm, "apply_requires_confirmation", p, nil)
	}

	ops := planToOperations(plan)
	tl, err = timeline.Apply(tl, ops)
	if err != nil {
		return nil, err
	}
	blob, err := timeline.Marshal(tl)
	if err != nil {
		return nil, err
	}
	if _, err := o.Store.SaveTimelineVersion(ctx, projectID, datatypes.JSON(blob)); err != nil {
		return nil, err
	}

	goal, err := o.Store.GetActiveGoal(ctx, projectID)
	if err == nil {
		_ = o.Store.UpdateGoalStatus(ctx, goal.ID, domain.GoalStatusApplied)
		_ = o.Store.UpdateGoalStatus(ctx, goal.ID, domain.GoalStatusCompleted)
	}

	return o.reply(ctx, projectID, modeAct, "plan_applied", p, map[string]any{"timeline": tl})
}

// planToOperations maps plan.primary_segments[] onto the magnetic
// operation sequence: each segment becomes one RippleInsertClip at the
// running end of the primary track, in plan order, followed by an
// InsertLayeredClip when the segment entry carries a caption_asset_id.
// Music beats in the plan are not mapped to any operation.
func planToOperations(plan *mlclient.GeneratePlanResponse) []timeline.Operation {
	if plan == nil {
		return nil
	}
	var ops []timeline.Operation
	var cursor int64
	for _, seg := range plan.PrimarySegments {
		assetID, _ := uuid.Parse(fmt.Sprint(seg["asset_id"]))
		in, _ := seg["in_ticks"].(float64)
		out, _ := seg["out_ticks"].(float64)
		duration := int64(out) - int64(in)

		ops = append(ops, timeline.Operation{
			Kind:     domain.OpRippleInsertClip,
			Asset:    assetID,
			Pos:      cursor,
			InTicks:  int64(in),
			OutTicks: int64(out),
		})

		if caption, ok := seg["caption_asset_id"]; ok {
			captionAsset, _ := uuid.Parse(fmt.Sprint(caption))
			ops = append(ops, timeline.Operation{
				Kind:      domain.OpInsertLayeredClip,
				Asset:     captionAsset,
				Pos:       cursor,
				InTicks:   0,
				OutTicks:  duration,
				BaseTrack: timeline.PrimaryTrackID,
			})
		}
		cursor += duration
	}
	return ops
}

func (o *Orchestrator) reply(ctx context.Context, projectID uuid.UUID, mode Mode, eventType string, p Preconditions, data any) (*Envelope, error) {
	history, err := o.Store.ListMessages(ctx, projectID, maxHistoryTurns)
	if err != nil {
		return nil, err
	}
	conv := make([]map[string]any, 0, len(history))
	for _, m := range history {
		conv = append(conv, map[string]any{"role": m.Role, "content": m.Content})
	}

	genReq := mlclient.GenerateResponseRequest{
		ConversationHistory: conv,
		ProjectState:        p,
		EventType:           eventType,
	}
	gen, err := o.ML.GenerateResponse(ctx, genReq)
	if err != nil {
		return nil, err
	}

	env := &Envelope{
		Mode:        mode.envelopeKind(),
		Message:     gen.Message,
		Suggestions: sanitizeSuggestions(gen.Suggestions),
		Questions:   gen.Questions,
		Data:        data,
	}

	payload, _ := json.Marshal(env)
	if _, err := o.Store.AppendMessage(ctx, projectID, domain.RoleAssistant, env.Message, datatypes.JSON(payload)); err != nil {
		return nil, err
	}
	return env, nil
}
