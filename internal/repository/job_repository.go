package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

// JobRepository 职位读仓储（只读，职位数据归属外部系统）
type JobRepository interface {
	// GetWithOrganization 查询职位并预加载所属组织公开资料
	GetWithOrganization(ctx context.Context, jobID string) (*model.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository { return &jobRepository{db: db} }

func (r *jobRepository) GetWithOrganization(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("id = ?", jobID).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
