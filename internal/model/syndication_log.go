package model

import "time"

// Platform 外部招聘平台标识（封闭枚举）
type Platform string

const (
	// PlatformIndeed 基于 feed 抓取的平台（爬虫自动收录）
	PlatformIndeed Platform = "indeed"
	// PlatformLinkedIn 手动/API 双模式平台
	PlatformLinkedIn Platform = "linkedin"
	// PlatformZipRecruiter 枚举中预留，暂无适配器
	PlatformZipRecruiter Platform = "ziprecruiter"
)

// Action 同步动作
type Action string

const (
	ActionPost   Action = "post"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
)

// Valid 判断是否为已知动作
func (a Action) Valid() bool {
	return a == ActionPost || a == ActionUpdate || a == ActionRemove
}

// Status 同步任务状态
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing" // 批处理器已认领，防止并发重复处理
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// SyndicationLog 同步任务日志（追加为主，每次尝试一行）
type SyndicationLog struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	JobID       string     `json:"job_id" gorm:"type:varchar(36);index:idx_synd_job_platform"`
	Platform    Platform   `json:"platform" gorm:"type:varchar(32);index:idx_synd_job_platform"`
	Action      Action     `json:"action" gorm:"type:varchar(16)"`
	Status      Status     `json:"status" gorm:"type:varchar(16);index"`
	ExternalID  string     `json:"external_id,omitempty" gorm:"type:varchar(255)"`
	Error       string     `json:"error,omitempty" gorm:"type:text"`
	Attempts    int        `json:"attempts"`
	ClaimedAt   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (SyndicationLog) TableName() string { return "syndication_logs" }

// SyndicationState (job, platform) 维度的当前外部 ID 投影，
// 与日志写回在同一事务内维护，update/remove 优先查询该表而非扫描历史。
// 下架成功后行保留为空值墓碑，而非删除。
type SyndicationState struct {
	JobID      string    `json:"job_id" gorm:"primaryKey;type:varchar(36)"`
	Platform   Platform  `json:"platform" gorm:"primaryKey;type:varchar(32)"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(255)"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SyndicationState) TableName() string { return "syndication_states" }
