package model

import "time"

// Job 职位读模型（本核心只读，不做任何修改）
type Job struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrganizationID string `json:"organization_id" gorm:"type:varchar(36);index"`
	Title          string `json:"title" gorm:"type:varchar(255);not null"`
	Slug           string `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	Description    string `json:"description" gorm:"type:text"`
	Location       string `json:"location" gorm:"type:varchar(255)"`
	LocationType   string `json:"location_type" gorm:"type:varchar(16)"`   // on_site, hybrid, remote
	EmploymentType string `json:"employment_type" gorm:"type:varchar(16)"` // full_time, part_time, contract, internship, temporary
	SalaryMin      *int64 `json:"salary_min,omitempty"`
	SalaryMax      *int64 `json:"salary_max,omitempty"`
	SalaryCurrency string `json:"salary_currency" gorm:"type:varchar(8)"`
	Category       string `json:"category" gorm:"type:varchar(64)"`

	SyndicationEnabled bool       `json:"syndication_enabled"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	ClosesAt           *time.Time `json:"closes_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (Job) TableName() string { return "jobs" }

// Organization 雇主组织公开资料
type Organization struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	LogoURL   string    `json:"logo_url" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at"`
}

func (Organization) TableName() string { return "organizations" }
