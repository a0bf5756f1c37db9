package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/internal/platform"
	"github.com/usman-fahimullah/canopy-syndication/internal/repository"
	"github.com/usman-fahimullah/canopy-syndication/pkg/lock"
	"github.com/usman-fahimullah/canopy-syndication/pkg/logger"
)

// DefaultBatchSize 单次处理的默认批大小
const DefaultBatchSize = 20

// staleClaimAge 认领超过该时长仍停留在 processing 的记录视为遗留，
// 下次跑批时重置回 pending（进程在写回结果前崩溃的场景）
const staleClaimAge = 10 * time.Minute

// Stats 单次批处理的统计结果
type Stats struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Processor 批处理器：认领 pending 任务，逐条派发到对应平台适配器并写回结果。
// 批内串行处理，保证同一 (job, platform) 的 post/remove 按创建顺序生效。
type Processor struct {
	repo     repository.SyndicationRepository
	jobs     repository.JobRepository
	registry *platform.Registry
	lease    *lock.Lease // 可选，多实例部署时防止重复跑批
	baseURL  string
}

func NewProcessor(repo repository.SyndicationRepository, jobs repository.JobRepository, registry *platform.Registry, lease *lock.Lease, publicBaseURL string) *Processor {
	return &Processor{
		repo:     repo,
		jobs:     jobs,
		registry: registry,
		lease:    lease,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

// ProcessPending 处理一批 pending 任务。单条任务的失败只落到记录上，
// 不中断批次，也不作为错误返回；返回错误仅代表批处理自身不可用。
func (p *Processor) ProcessPending(ctx context.Context, batchSize int) (Stats, error) {
	var stats Stats
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if p.lease != nil {
		ok, err := p.lease.Acquire(ctx)
		if err != nil {
			return stats, err
		}
		if !ok {
			logger.Debug("processor lease busy, skipping run")
			return stats, nil
		}
		defer func() {
			if err := p.lease.Release(ctx); err != nil {
				logger.Warn("release processor lease", zap.Error(err))
			}
		}()
	}

	if n, err := p.repo.ReleaseStale(ctx, staleClaimAge); err != nil {
		logger.Warn("release stale claims", zap.Error(err))
	} else if n > 0 {
		logger.Info("released stale syndication claims", zap.Int64("count", n))
	}

	batch, err := p.repo.ClaimPending(ctx, batchSize)
	if err != nil {
		return stats, err
	}

	for _, rec := range batch {
		stats.Processed++
		res := p.processOne(ctx, rec)

		status := model.StatusSuccess
		if res.Success {
			stats.Succeeded++
		} else {
			status = model.StatusFailed
			stats.Failed++
		}
		if err := p.repo.MarkResult(ctx, rec, status, res.ExternalID, res.Error); err != nil {
			logger.Error("write back syndication result",
				zap.String("log_id", rec.ID), zap.Error(err))
		}
	}

	if stats.Processed > 0 {
		logger.Info("syndication batch processed",
			zap.Int("processed", stats.Processed),
			zap.Int("succeeded", stats.Succeeded),
			zap.Int("failed", stats.Failed))
	}
	return stats, nil
}

// processOne 处理单条任务；任何 panic 都被吸收为该条记录的失败
func (p *Processor) processOne(ctx context.Context, rec *model.SyndicationLog) (res platform.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing syndication log",
				zap.String("log_id", rec.ID), zap.Any("panic", r))
			res = platform.Result{Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	adapter, ok := p.registry.Lookup(rec.Platform)
	if !ok {
		return platform.Result{Error: fmt.Sprintf("No adapter for platform: %s", rec.Platform)}
	}

	// remove 只需要外部 ID，不取职位快照（调用方可能已没有快照）
	if rec.Action == model.ActionRemove {
		externalID, err := p.repo.CurrentExternalID(ctx, rec.JobID, rec.Platform)
		if err != nil {
			return platform.Failure(err)
		}
		if externalID == "" {
			// 从未成功发布过，无可移除
			return platform.Result{Success: true}
		}
		return adapter.Remove(ctx, externalID)
	}

	payload, err := p.buildPayload(ctx, rec.JobID)
	if err != nil {
		return platform.Failure(err)
	}

	if rec.Action == model.ActionUpdate {
		externalID, err := p.repo.CurrentExternalID(ctx, rec.JobID, rec.Platform)
		if err != nil {
			return platform.Failure(err)
		}
		if externalID != "" {
			return adapter.Update(ctx, payload, externalID)
		}
		// 无历史发布记录，退化为 post 自愈
	}
	return adapter.Post(ctx, payload)
}

func (p *Processor) buildPayload(ctx context.Context, jobID string) (*platform.JobPayload, error) {
	job, err := p.jobs.GetWithOrganization(ctx, jobID)
	if err != nil {
		return nil, err
	}
	payload := &platform.JobPayload{
		JobID:          job.ID,
		Title:          job.Title,
		Description:    job.Description,
		Location:       job.Location,
		LocationType:   job.LocationType,
		EmploymentType: job.EmploymentType,
		SalaryMin:      job.SalaryMin,
		SalaryMax:      job.SalaryMax,
		SalaryCurrency: job.SalaryCurrency,
		Category:       job.Category,
		PublishedAt:    job.PublishedAt,
		ClosesAt:       job.ClosesAt,
		ApplyURL:       p.applyURL(job),
	}
	if org := job.Organization; org != nil {
		payload.Organization = platform.OrgProfile{ID: org.ID, Name: org.Name, Slug: org.Slug, LogoURL: org.LogoURL}
	} else {
		payload.Organization = platform.OrgProfile{ID: job.OrganizationID}
	}
	return payload, nil
}

func (p *Processor) applyURL(job *model.Job) string {
	ref := job.Slug
	if ref == "" {
		ref = job.ID
	}
	return fmt.Sprintf("%s/jobs/%s", p.baseURL, ref)
}
