package jobs

import "github.com/vibecut/daemon/internal/domain"

// prerequisites is the per-job-type readiness gate the scheduler
// checks before dispatch. A job type absent from this map (or mapping
// to an empty slice) has no asset-readiness precondition and is
// dispatched as soon as it is Pending.
var prerequisites = map[domain.JobType][]domain.JobType{
	domain.JobEnrichSegmentsFromTranscript: {domain.JobBuildSegments, domain.JobTranscribeAsset},
	domain.JobEnrichSegmentsFromVision:     {domain.JobBuildSegments, domain.JobAnalyzeVisionAsset},
	domain.JobComputeSegmentMetadata:       {domain.JobBuildSegments},
	domain.JobEmbedSegments:                {domain.JobComputeSegmentMetadata},
	domain.JobIndexAssetWithExternalService: {domain.JobEmbedSegments},
}
