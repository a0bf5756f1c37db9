package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/internal/repository"
)

var (
	ErrEmptyJobID    = errors.New("job id is required")
	ErrNoPlatforms   = errors.New("at least one platform is required")
	ErrUnknownAction = errors.New("unknown syndication action")
)

// StatusReport 某职位的同步状况：全量日志（新在前）+ 各平台最新一条
type StatusReport struct {
	Logs             []*model.SyndicationLog                  `json:"logs"`
	LatestByPlatform map[model.Platform]*model.SyndicationLog `json:"latest_by_platform"`
}

// SyndicationService 同步任务入列与查询服务
type SyndicationService interface {
	// Enqueue 为每个平台写入一条 pending 任务，返回创建条数。
	// 不校验平台是否已注册适配器，未注册平台在处理阶段标记失败。
	Enqueue(ctx context.Context, jobID string, platforms []model.Platform, action model.Action) (int, error)

	// Status 查询某职位全部同步日志及各平台最新状态
	Status(ctx context.Context, jobID string) (*StatusReport, error)

	// Retry 将 failed 记录重置为 pending；记录不存在或非 failed 返回 nil
	Retry(ctx context.Context, logID string) (*model.SyndicationLog, error)
}

type syndicationService struct {
	repo repository.SyndicationRepository
}

func NewSyndicationService(repo repository.SyndicationRepository) SyndicationService {
	return &syndicationService{repo: repo}
}

func (s *syndicationService) Enqueue(ctx context.Context, jobID string, platforms []model.Platform, action model.Action) (int, error) {
	if jobID == "" {
		return 0, ErrEmptyJobID
	}
	if len(platforms) == 0 {
		return 0, ErrNoPlatforms
	}
	if !action.Valid() {
		return 0, ErrUnknownAction
	}
	now := time.Now()
	logs := make([]*model.SyndicationLog, 0, len(platforms))
	for _, p := range platforms {
		logs = append(logs, &model.SyndicationLog{
			ID:        uuid.New().String(),
			JobID:     jobID,
			Platform:  p,
			Action:    action,
			Status:    model.StatusPending,
			CreatedAt: now,
		})
	}
	if err := s.repo.CreateBatch(ctx, logs); err != nil {
		return 0, err
	}
	return len(logs), nil
}

func (s *syndicationService) Status(ctx context.Context, jobID string) (*StatusReport, error) {
	logs, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	latest := make(map[model.Platform]*model.SyndicationLog)
	// 列表新在前，每个平台保留首见的一条
	for _, l := range logs {
		if _, ok := latest[l.Platform]; !ok {
			latest[l.Platform] = l
		}
	}
	return &StatusReport{Logs: logs, LatestByPlatform: latest}, nil
}

func (s *syndicationService) Retry(ctx context.Context, logID string) (*model.SyndicationLog, error) {
	return s.repo.ResetFailed(ctx, logID)
}
