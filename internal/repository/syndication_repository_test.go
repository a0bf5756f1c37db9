package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Organization{},
		&model.Job{},
		&model.PlatformCredential{},
		&model.SyndicationLog{},
		&model.SyndicationState{},
	))
	return db
}

func newLog(jobID string, p model.Platform, action model.Action, status model.Status, createdAt time.Time) *model.SyndicationLog {
	return &model.SyndicationLog{
		ID:        uuid.New().String(),
		JobID:     jobID,
		Platform:  p,
		Action:    action,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestClaimPendingOldestFirstWithLimit(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var logs []*model.SyndicationLog
	for i := 0; i < 5; i++ {
		logs = append(logs, newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusPending, base.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, repo.CreateBatch(ctx, logs))

	first, err := repo.ClaimPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, logs[0].ID, first[0].ID)
	require.Equal(t, logs[1].ID, first[1].ID)
	for _, l := range first {
		require.Equal(t, model.StatusProcessing, l.Status)
		require.Equal(t, 1, l.Attempts)
	}

	// 已认领的记录不会被第二次认领
	second, err := repo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, second, 3)
	seen := map[string]bool{first[0].ID: true, first[1].ID: true}
	for _, l := range second {
		require.False(t, seen[l.ID])
	}
}

func TestClaimPendingEmpty(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)

	got, err := repo.ClaimPending(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestMarkResultMaintainsProjection(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	post := newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusProcessing, time.Now())
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{post}))
	require.NoError(t, repo.MarkResult(ctx, post, model.StatusSuccess, "ext-1", ""))

	id, err := repo.CurrentExternalID(ctx, "j1", model.PlatformIndeed)
	require.NoError(t, err)
	require.Equal(t, "ext-1", id)

	var state model.SyndicationState
	require.NoError(t, db.Where("job_id = ? AND platform = ?", "j1", model.PlatformIndeed).First(&state).Error)
	require.Equal(t, "ext-1", state.ExternalID)

	// 更新换 ID 时投影跟随
	update := newLog("j1", model.PlatformIndeed, model.ActionUpdate, model.StatusProcessing, time.Now())
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{update}))
	require.NoError(t, repo.MarkResult(ctx, update, model.StatusSuccess, "ext-2", ""))

	id, err = repo.CurrentExternalID(ctx, "j1", model.PlatformIndeed)
	require.NoError(t, err)
	require.Equal(t, "ext-2", id)

	// 下架成功后投影清除
	remove := newLog("j1", model.PlatformIndeed, model.ActionRemove, model.StatusProcessing, time.Now())
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{remove}))
	require.NoError(t, repo.MarkResult(ctx, remove, model.StatusSuccess, "", ""))

	id, err = repo.CurrentExternalID(ctx, "j1", model.PlatformIndeed)
	require.NoError(t, err)
	require.Empty(t, id)

	// 投影行以空值墓碑保留，阻止回退扫描到旧日志里的 ext-2
	state = model.SyndicationState{}
	require.NoError(t, db.Where("job_id = ? AND platform = ?", "j1", model.PlatformIndeed).First(&state).Error)
	require.Empty(t, state.ExternalID)
}

func TestMarkResultFailureKeepsExternalID(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	log := newLog("j1", model.PlatformLinkedIn, model.ActionUpdate, model.StatusProcessing, time.Now())
	log.ExternalID = "li-1"
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{log}))
	require.NoError(t, repo.MarkResult(ctx, log, model.StatusFailed, "", "status 500: rate limited"))

	got, err := repo.GetByID(ctx, log.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusFailed, got.Status)
	require.Equal(t, "li-1", got.ExternalID)
	require.Equal(t, "status 500: rate limited", got.Error)
	require.NotNil(t, got.ProcessedAt)
}

func TestCurrentExternalIDFallsBackToLogScan(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	// 无投影行，只有历史成功日志
	base := time.Now().Add(-time.Hour)
	older := newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusSuccess, base)
	older.ExternalID = "old"
	newer := newLog("j1", model.PlatformIndeed, model.ActionUpdate, model.StatusSuccess, base.Add(time.Minute))
	newer.ExternalID = "new"
	failed := newLog("j1", model.PlatformIndeed, model.ActionUpdate, model.StatusFailed, base.Add(2*time.Minute))
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{older, newer, failed}))

	id, err := repo.CurrentExternalID(ctx, "j1", model.PlatformIndeed)
	require.NoError(t, err)
	require.Equal(t, "new", id)

	id, err = repo.CurrentExternalID(ctx, "j1", model.PlatformLinkedIn)
	require.NoError(t, err)
	require.Empty(t, id)
}

func TestResetFailed(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	failed := newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusFailed, time.Now())
	failed.Error = "boom"
	done := newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusSuccess, time.Now())
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{failed, done}))

	got, err := repo.ResetFailed(ctx, failed.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, model.StatusPending, got.Status)
	require.Empty(t, got.Error)

	// 非 failed 状态不可重试
	got, err = repo.ResetFailed(ctx, done.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = repo.ResetFailed(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestReleaseStale(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	claimedOld := time.Now().Add(-30 * time.Minute)
	claimedNew := time.Now()
	stale := newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusProcessing, claimedOld)
	stale.ClaimedAt = &claimedOld
	fresh := newLog("j1", model.PlatformLinkedIn, model.ActionPost, model.StatusProcessing, claimedNew)
	fresh.ClaimedAt = &claimedNew
	failed := newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusFailed, claimedOld)
	failed.ClaimedAt = &claimedOld
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{stale, fresh, failed}))

	// 仅回收超时的 processing 记录，新近认领与 failed 不受影响
	n, err := repo.ReleaseStale(ctx, 10*time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, got.Status)
	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusProcessing, got.Status)
	got, err = repo.GetByID(ctx, failed.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusFailed, got.Status)

	// 回收后的记录可被再次认领
	claimed, err := repo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	require.Equal(t, stale.ID, claimed[0].ID)
}

func TestListByJobNewestFirst(t *testing.T) {
	db := setupDB(t)
	repo := NewSyndicationRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var logs []*model.SyndicationLog
	for i := 0; i < 3; i++ {
		logs = append(logs, newLog("j1", model.PlatformIndeed, model.ActionPost, model.StatusPending, base.Add(time.Duration(i)*time.Minute)))
	}
	other := newLog("j2", model.PlatformIndeed, model.ActionPost, model.StatusPending, base)
	require.NoError(t, repo.CreateBatch(ctx, append(logs, other)))

	got, err := repo.ListByJob(ctx, "j1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, logs[2].ID, got[0].ID)
	require.Equal(t, logs[0].ID, got[2].ID)
}
