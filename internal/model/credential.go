package model

import "time"

// PlatformCredential 平台 API 凭证；OrganizationID 为空表示全局凭证
type PlatformCredential struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Platform       Platform  `json:"platform" gorm:"type:varchar(32);index:idx_cred_platform_org"`
	OrganizationID *string   `json:"organization_id,omitempty" gorm:"type:varchar(36);index:idx_cred_platform_org"`
	AccessToken    string    `json:"-" gorm:"type:varchar(512);not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (PlatformCredential) TableName() string { return "platform_credentials" }
