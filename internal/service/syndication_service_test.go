package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/internal/repository"
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

func TestEnqueueCreatesOneRecordPerPlatform(t *testing.T) {
	db := setupDB(t)
	svc := NewSyndicationService(repository.NewSyndicationRepository(db))
	ctx := context.Background()

	count, err := svc.Enqueue(ctx, "j1", []model.Platform{model.PlatformIndeed, model.PlatformLinkedIn}, model.ActionPost)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	var logs []*model.SyndicationLog
	require.NoError(t, db.Order("platform").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.Equal(t, model.PlatformIndeed, logs[0].Platform)
	require.Equal(t, model.PlatformLinkedIn, logs[1].Platform)
	for _, l := range logs {
		require.Equal(t, model.StatusPending, l.Status)
		require.Equal(t, model.ActionPost, l.Action)
		require.Equal(t, "j1", l.JobID)
	}
}

func TestEnqueueDoesNotValidateRegistry(t *testing.T) {
	db := setupDB(t)
	svc := NewSyndicationService(repository.NewSyndicationRepository(db))

	// 未注册适配器的平台照常入列，处理阶段才失败
	count, err := svc.Enqueue(context.Background(), "j1", []model.Platform{model.PlatformZipRecruiter}, model.ActionPost)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestEnqueueValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewSyndicationService(repository.NewSyndicationRepository(db))
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, "", []model.Platform{model.PlatformIndeed}, model.ActionPost)
	require.ErrorIs(t, err, ErrEmptyJobID)

	_, err = svc.Enqueue(ctx, "j1", nil, model.ActionPost)
	require.ErrorIs(t, err, ErrNoPlatforms)

	_, err = svc.Enqueue(ctx, "j1", []model.Platform{model.PlatformIndeed}, model.Action("publish"))
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestStatusLatestByPlatform(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewSyndicationRepository(db)
	svc := NewSyndicationService(repo)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var newest *model.SyndicationLog
	for i := 0; i < 5; i++ {
		l := &model.SyndicationLog{
			ID: uuid.New().String(), JobID: "j1", Platform: model.PlatformIndeed,
			Action: model.ActionPost, Status: model.StatusSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{l}))
		newest = l
	}
	li := &model.SyndicationLog{
		ID: uuid.New().String(), JobID: "j1", Platform: model.PlatformLinkedIn,
		Action: model.ActionPost, Status: model.StatusFailed, CreatedAt: base.Add(30 * time.Second),
	}
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{li}))

	report, err := svc.Status(ctx, "j1")
	require.NoError(t, err)
	require.Len(t, report.Logs, 6)
	require.Equal(t, newest.ID, report.Logs[0].ID)
	require.Equal(t, newest.ID, report.LatestByPlatform[model.PlatformIndeed].ID)
	require.Equal(t, li.ID, report.LatestByPlatform[model.PlatformLinkedIn].ID)
}

func TestRetryOnlyFailed(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewSyndicationRepository(db)
	svc := NewSyndicationService(repo)
	ctx := context.Background()

	failed := &model.SyndicationLog{
		ID: uuid.New().String(), JobID: "j1", Platform: model.PlatformIndeed,
		Action: model.ActionPost, Status: model.StatusFailed, Error: "boom", CreatedAt: time.Now(),
	}
	ok := &model.SyndicationLog{
		ID: uuid.New().String(), JobID: "j1", Platform: model.PlatformIndeed,
		Action: model.ActionPost, Status: model.StatusSuccess, CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateBatch(ctx, []*model.SyndicationLog{failed, ok}))

	got, err := svc.Retry(ctx, failed.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, model.StatusPending, got.Status)
	require.Empty(t, got.Error)

	got, err = svc.Retry(ctx, ok.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}
