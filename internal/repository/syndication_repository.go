package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
)

// SyndicationRepository 同步任务日志仓储接口
type SyndicationRepository interface {
	// CreateBatch 批量写入任务日志
	CreateBatch(ctx context.Context, logs []*model.SyndicationLog) error

	// ClaimPending 原子认领一批 pending 任务（最旧优先），置为 processing。
	// 并发调用不会认领到同一条记录。
	ClaimPending(ctx context.Context, limit int) ([]*model.SyndicationLog, error)

	// MarkResult 写回单条任务结果，并在同一事务内维护外部 ID 投影
	MarkResult(ctx context.Context, log *model.SyndicationLog, status model.Status, externalID, errMsg string) error

	// CurrentExternalID 查询 (job, platform) 当前外部 ID；无则返回空串
	CurrentExternalID(ctx context.Context, jobID string, platform model.Platform) (string, error)

	// ListByJob 按创建时间倒序返回某职位的全部任务日志
	ListByJob(ctx context.Context, jobID string) ([]*model.SyndicationLog, error)

	// GetByID 按 ID 查询单条日志
	GetByID(ctx context.Context, id string) (*model.SyndicationLog, error)

	// ResetFailed 将 failed 记录重置为 pending；记录不存在或状态不符返回 nil
	ResetFailed(ctx context.Context, id string) (*model.SyndicationLog, error)

	// ReleaseStale 将认领后超时仍未写回结果的 processing 记录重置为 pending，
	// 回收因进程崩溃而被遗留的认领。返回重置的行数。
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type syndicationRepository struct {
	db *gorm.DB
}

func NewSyndicationRepository(db *gorm.DB) SyndicationRepository {
	return &syndicationRepository{db: db}
}

func (r *syndicationRepository) CreateBatch(ctx context.Context, logs []*model.SyndicationLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *syndicationRepository) ClaimPending(ctx context.Context, limit int) ([]*model.SyndicationLog, error) {
	var claimed []*model.SyndicationLog
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("status = ?", model.StatusPending).Order("created_at").Limit(limit)
		// postgres 下跳过已被其他实例锁定的行
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		var batch []*model.SyndicationLog
		if err := q.Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, l := range batch {
			ids[i] = l.ID
		}
		res := tx.Model(&model.SyndicationLog{}).
			Where("id IN ? AND status = ?", ids, model.StatusPending).
			Updates(map[string]any{
				"status":     model.StatusProcessing,
				"attempts":   gorm.Expr("attempts + 1"),
				"claimed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		for _, l := range batch {
			l.Status = model.StatusProcessing
			l.Attempts++
			l.ClaimedAt = &now
		}
		claimed = batch
		return nil
	})
	return claimed, err
}

func (r *syndicationRepository) MarkResult(ctx context.Context, log *model.SyndicationLog, status model.Status, externalID, errMsg string) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":       status,
			"error":        errMsg,
			"processed_at": now,
		}
		// 本次结果未提供新 ID 时保留原值
		if externalID != "" {
			updates["external_id"] = externalID
		}
		if err := tx.Model(&model.SyndicationLog{}).Where("id = ?", log.ID).Updates(updates).Error; err != nil {
			return err
		}
		if status != model.StatusSuccess {
			return nil
		}
		id := externalID
		if id == "" {
			id = log.ExternalID
		}
		if log.Action == model.ActionRemove {
			// 下架后写空值墓碑而非删除行：防止查询回退到历史日志复活旧 ID
			id = ""
		} else if id == "" {
			return nil
		}
		state := &model.SyndicationState{JobID: log.JobID, Platform: log.Platform, ExternalID: id, UpdatedAt: now}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{"external_id", "updated_at"}),
		}).Create(state).Error
	})
	if err != nil {
		return err
	}
	log.Status = status
	log.Error = errMsg
	log.ProcessedAt = &now
	if externalID != "" {
		log.ExternalID = externalID
	}
	return nil
}

func (r *syndicationRepository) CurrentExternalID(ctx context.Context, jobID string, platform model.Platform) (string, error) {
	var state model.SyndicationState
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND platform = ?", jobID, platform).
		First(&state).Error
	if err == nil {
		return state.ExternalID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	// 投影行缺失时回退扫描历史日志（兼容投影上线前的旧数据）
	var last model.SyndicationLog
	err = r.db.WithContext(ctx).
		Where("job_id = ? AND platform = ? AND status = ? AND external_id <> ''", jobID, platform, model.StatusSuccess).
		Order("created_at DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last.ExternalID, nil
}

func (r *syndicationRepository) ListByJob(ctx context.Context, jobID string) ([]*model.SyndicationLog, error) {
	var logs []*model.SyndicationLog
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *syndicationRepository) GetByID(ctx context.Context, id string) (*model.SyndicationLog, error) {
	var log model.SyndicationLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *syndicationRepository) ResetFailed(ctx context.Context, id string) (*model.SyndicationLog, error) {
	res := r.db.WithContext(ctx).
		Model(&model.SyndicationLog{}).
		Where("id = ? AND status = ?", id, model.StatusFailed).
		Updates(map[string]any{"status": model.StatusPending, "error": ""})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *syndicationRepository) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := r.db.WithContext(ctx).
		Model(&model.SyndicationLog{}).
		Where("status = ? AND claimed_at < ?", model.StatusProcessing, cutoff).
		Update("status", model.StatusPending)
	return res.RowsAffected, res.Error
}
