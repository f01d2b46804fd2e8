package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/platform/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	st, err := Open(":memory:", log)
	require.NoError(t, err)
	return st
}

func TestCreateJob_DedupesByKey(t *testing.T) {
	st := newTestStore(t)
	ctx := t.Context()

	job1, created1, err := st.CreateJob(ctx, domain.JobBuildSegments, nil, "build-segments:asset-1", nil)
	require.NoError(t, err)
	require.True(t, created1)

	job2, created2, err := st.CreateJob(ctx, domain.JobBuildSegments, nil, "build-segments:asset-1", nil)
	require.NoError(t, err)
	require.False(t, created2, "a second job with the same dedupe key must not be created while the first is active")
	require.Equal(t, job1.ID, job2.ID)
}

func TestSweepRunningToPending_OnlyTouchesRunningJobs(t *testing.T) {
	st := newTestStore(t)
	ctx := t.Context()

	job, _, err := st.CreateJob(ctx, domain.JobBuildSegments, nil, "", nil)
	require.NoError(t, err)
	require.NoError(t, st.UpdateJobStatus(ctx, job.ID, domain.JobStatusRunning, nil))

	pending, _, err := st.CreateJob(ctx, domain.JobEmbedSegments, nil, "", nil)
	require.NoError(t, err)

	swept, err := st.SweepRunningToPending(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), swept)

	reloaded, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.JobStatusPending), reloaded.Status)

	stillPending, err := st.GetJob(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.JobStatusPending), stillPending.Status)
}

func TestDeleteProject_CascadesToAssets(t *testing.T) {
	st := newTestStore(t)
	ctx := t.Context()

	project := &domain.Project{Name: "test", CacheDir: "/tmp/cache"}
	require.NoError(t, st.CreateProject(ctx, project))

	asset := &domain.MediaAsset{ProjectID: project.ID, Path: "/media/a.mov"}
	require.NoError(t, st.db.WithContext(ctx).Create(asset).Error)

	require.NoError(t, st.DeleteProject(ctx, project.ID))

	_, err := st.GetProject(ctx, project.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetAsset(ctx, asset.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetAssetByPath_NotFoundIsErrNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := t.Context()

	_, err := st.GetAssetByPath(ctx, uuid.New(), "/nowhere")
	require.ErrorIs(t, err, ErrNotFound)
}
