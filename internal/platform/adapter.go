package platform

import (
	"context"
	"time"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
)

// Result is the outcome of a single adapter call. ExternalID is only
// meaningful when Success is true; Error is only meaningful when it is not.
type Result struct {
	Success    bool
	ExternalID string
	Error      string
}

// Failure builds a failed Result from an error.
func Failure(err error) Result { return Result{Error: err.Error()} }

// OrgProfile is the public employer profile embedded in a payload.
type OrgProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logo_url,omitempty"`
}

// JobPayload is the platform-agnostic snapshot of a job posting handed to
// adapters. Each adapter maps it onto its board's own schema.
type JobPayload struct {
	JobID          string     `json:"job_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	LocationType   string     `json:"location_type"`
	EmploymentType string     `json:"employment_type"`
	SalaryMin      *int64     `json:"salary_min,omitempty"`
	SalaryMax      *int64     `json:"salary_max,omitempty"`
	SalaryCurrency string     `json:"salary_currency,omitempty"`
	Category       string     `json:"category,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	ClosesAt       *time.Time `json:"closes_at,omitempty"`
	ApplyURL       string     `json:"apply_url"`
	Organization   OrgProfile `json:"organization"`
}

// Adapter integrates one external job board. Remove takes only an external id
// because some callers do not have the job snapshot available.
type Adapter interface {
	Post(ctx context.Context, payload *JobPayload) Result
	Update(ctx context.Context, payload *JobPayload, externalID string) Result
	Remove(ctx context.Context, externalID string) Result
}

// Credential is an access token usable against a board's API.
type Credential struct {
	AccessToken string
}

// CredentialResolver supplies per-organization or global API credentials.
// A nil credential with a nil error means "no credential configured", which
// adapters treat as the signal to use their passive (feed/manual) mode.
type CredentialResolver interface {
	Resolve(ctx context.Context, platform model.Platform, organizationID string) (*Credential, error)
	// ResolveGlobal is the less specific lookup used by the remove path,
	// which is sometimes invoked with only an external id.
	ResolveGlobal(ctx context.Context, platform model.Platform) (*Credential, error)
}
