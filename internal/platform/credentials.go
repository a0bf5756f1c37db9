package platform

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
)

// CredentialStore resolves board API credentials from the platform_credentials
// table, preferring an organization-scoped row, then a global row
// (organization_id IS NULL), then a static token from config.
type CredentialStore struct {
	db       *gorm.DB
	fallback map[model.Platform]string
}

func NewCredentialStore(db *gorm.DB, fallback map[model.Platform]string) *CredentialStore {
	if fallback == nil {
		fallback = map[model.Platform]string{}
	}
	return &CredentialStore{db: db, fallback: fallback}
}

func (s *CredentialStore) Resolve(ctx context.Context, platform model.Platform, organizationID string) (*Credential, error) {
	if s.db != nil && organizationID != "" {
		var cred model.PlatformCredential
		err := s.db.WithContext(ctx).
			Where("platform = ? AND organization_id = ?", platform, organizationID).
			Order("created_at DESC").
			First(&cred).Error
		if err == nil {
			return &Credential{AccessToken: cred.AccessToken}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return s.ResolveGlobal(ctx, platform)
}

func (s *CredentialStore) ResolveGlobal(ctx context.Context, platform model.Platform) (*Credential, error) {
	if s.db != nil {
		var cred model.PlatformCredential
		err := s.db.WithContext(ctx).
			Where("platform = ? AND organization_id IS NULL", platform).
			Order("created_at DESC").
			First(&cred).Error
		if err == nil {
			return &Credential{AccessToken: cred.AccessToken}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if token := s.fallback[platform]; token != "" {
		return &Credential{AccessToken: token}, nil
	}
	return nil, nil
}
