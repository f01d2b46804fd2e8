package domain

// JobType enumerates the pipeline and generic job kinds the scheduler
// and HTTP surface can enqueue. Wire representation is the string
// value; there is no numeric encoding.
type JobType string

const (
	JobImportRaw                   JobType = "ImportRaw"
	JobGenerateProxy                JobType = "GenerateProxy"
	JobBuildSegments                JobType = "BuildSegments"
	JobTranscribeAsset              JobType = "TranscribeAsset"
	JobAnalyzeVisionAsset           JobType = "AnalyzeVisionAsset"
	JobEnrichSegmentsFromTranscript JobType = "EnrichSegmentsFromTranscript"
	JobEnrichSegmentsFromVision     JobType = "EnrichSegmentsFromVision"
	JobComputeSegmentMetadata       JobType = "ComputeSegmentMetadata"
	JobEmbedSegments                JobType = "EmbedSegments"
	JobIndexAssetWithExternalService JobType = "IndexAssetWithExternalService"
	JobGenerateEdit                 JobType = "GenerateEdit"
	JobExport                       JobType = "Export"
)

// JobStatus is the closed set of job lifecycle states.
type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusRunning   JobStatus = "Running"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusFailed    JobStatus = "Failed"
	JobStatusCancelled JobStatus = "Cancelled"
)

// IsTerminal reports whether a job in this status no longer counts as active.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// AssetReadiness is the highest analysis stage an asset has reached.
// Precedence, lowest to highest: Imported < Segmented < Enriched <
// MetadataReady < Embedded < IndexedExternal.
type AssetReadiness string

const (
	ReadinessImported       AssetReadiness = "Imported"
	ReadinessSegmented      AssetReadiness = "Segmented"
	ReadinessEnriched       AssetReadiness = "Enriched"
	ReadinessMetadataReady  AssetReadiness = "MetadataReady"
	ReadinessEmbedded       AssetReadiness = "Embedded"
	ReadinessIndexedExternal AssetReadiness = "IndexedExternal"
)

var readinessRank = map[AssetReadiness]int{
	ReadinessImported:        0,
	ReadinessSegmented:       1,
	ReadinessEnriched:        2,
	ReadinessMetadataReady:   3,
	ReadinessEmbedded:        4,
	ReadinessIndexedExternal: 5,
}

// Rank returns the precedence of a readiness level; higher is further along.
func (r AssetReadiness) Rank() int { return readinessRank[r] }

// AtLeast reports whether r has reached at least the given level.
func (r AssetReadiness) AtLeast(other AssetReadiness) bool {
	return r.Rank() >= other.Rank()
}

// ReadinessGoal is the target level ensure_ready drives assets toward.
// It reuses AssetReadiness's non-Imported members.
type ReadinessGoal = AssetReadiness

const (
	GoalSegmented      = ReadinessSegmented
	GoalEnriched       = ReadinessEnriched
	GoalMetadataReady  = ReadinessMetadataReady
	GoalEmbedded       = ReadinessEmbedded
	GoalIndexedExternal = ReadinessIndexedExternal
)

// AgentMode is the orchestrator's six-state decision outcome.
type AgentMode string

const (
	ModeTalkConfirm AgentMode = "talk_confirm"
	ModeTalkImport  AgentMode = "talk_import"
	ModeTalkAnalyze AgentMode = "talk_analyze"
	ModeBusy        AgentMode = "busy"
	ModeTalkClarify AgentMode = "talk_clarify"
	ModeAct         AgentMode = "act"
)

// EnvelopeKind is the top-level shape of an orchestrator response.
type EnvelopeKind string

const (
	EnvelopeTalk EnvelopeKind = "talk"
	EnvelopeBusy EnvelopeKind = "busy"
	EnvelopeAct  EnvelopeKind = "act"
)

// TimelineOperation names one of the magnetic-timeline mutation types.
type TimelineOperation string

const (
	OpSplitClip              TimelineOperation = "SplitClip"
	OpTrimClip                TimelineOperation = "TrimClip"
	OpDeleteClip              TimelineOperation = "DeleteClip"
	OpInsertClip              TimelineOperation = "InsertClip"
	OpMoveClip                TimelineOperation = "MoveClip"
	OpReorderClip             TimelineOperation = "ReorderClip"
	OpMoveClipToTrack         TimelineOperation = "MoveClipToTrack"
	OpRippleInsertClip        TimelineOperation = "RippleInsertClip"
	OpOverwriteClip           TimelineOperation = "OverwriteClip"
	OpInsertLayeredClip       TimelineOperation = "InsertLayeredClip"
	OpConvertPrimaryToOverlay TimelineOperation = "ConvertPrimaryToOverlay"
	OpConvertOverlayToPrimary TimelineOperation = "ConvertOverlayToPrimary"
	OpConsolidateTimeline     TimelineOperation = "ConsolidateTimeline"
	OpClearTimeline           TimelineOperation = "ClearTimeline"
)

// RetrievalBackendKind selects which C5 backend(s) serve a query.
type RetrievalBackendKind string

const (
	RetrievalExternal         RetrievalBackendKind = "external"
	RetrievalLocal            RetrievalBackendKind = "local"
	RetrievalExternalThenLocal RetrievalBackendKind = "external_then_local"
)

// TrackKind is the closed set of timeline track media kinds.
type TrackKind string

const (
	TrackVideo   TrackKind = "Video"
	TrackAudio   TrackKind = "Audio"
	TrackCaption TrackKind = "Caption"
)

// EditEvent names the kind of JobEvent broadcast over the job bus.
type EditEvent string

const (
	EventJobCompleted     EditEvent = "JobCompleted"
	EventJobFailed        EditEvent = "JobFailed"
	EventAnalysisComplete EditEvent = "AnalysisComplete"
)

// EmbeddingType distinguishes the three embedding flavors stored per segment.
type EmbeddingType string

const (
	EmbeddingText   EmbeddingType = "text"
	EmbeddingVision EmbeddingType = "vision"
	EmbeddingFusion EmbeddingType = "fusion"
)

// OrchestratorGoalStatus is the closed set of goal lifecycle states.
type OrchestratorGoalStatus string

const (
	GoalStatusNeedsAnalysis   OrchestratorGoalStatus = "needs_analysis"
	GoalStatusReadyToPropose  OrchestratorGoalStatus = "ready_to_propose"
	GoalStatusProposed        OrchestratorGoalStatus = "proposed"
	GoalStatusPlanned         OrchestratorGoalStatus = "planned"
	GoalStatusApplied         OrchestratorGoalStatus = "applied"
	GoalStatusCompleted       OrchestratorGoalStatus = "completed"
	GoalStatusCancelled       OrchestratorGoalStatus = "cancelled"
)

// IsTerminal reports whether this goal status is a final state.
func (s OrchestratorGoalStatus) IsTerminal() bool {
	switch s {
	case GoalStatusCompleted, GoalStatusCancelled:
		return true
	default:
		return false
	}
}

// MessageRole is the closed set of OrchestratorMessage speakers.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// PipelineOrder is the partial order of analysis job types, used by
// both the scheduler's prerequisite gate and the readiness ensure-loop
// to compute missing steps. Independent branches (transcript vs.
// vision) are listed for a single asset goal; EnrichSegments* fan-in
// before ComputeSegmentMetadata.
var PipelineOrder = []JobType{
	JobBuildSegments,
	JobTranscribeAsset,
	JobAnalyzeVisionAsset,
	JobEnrichSegmentsFromTranscript,
	JobEnrichSegmentsFromVision,
	JobComputeSegmentMetadata,
	JobEmbedSegments,
	JobIndexAssetWithExternalService,
}

// DedupeKey builds the canonical "{JobType}:{asset_id}" admission-control key.
func DedupeKey(t JobType, assetID string) string {
	return string(t) + ":" + assetID
}
