package platform

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/pkg/logger"
)

// ManualIDPrefix marks listings that a human must complete through the
// board's own UI; the system only tracks intent.
const ManualIDPrefix = "manual:"

// LinkedInAdapter integrates the manual/API board. Without a credential it
// records manual-posting intent; with one it performs real API calls using
// the board-specific payload shape.
type LinkedInAdapter struct {
	creds   CredentialResolver
	client  *apiClient
	baseURL string
}

func NewLinkedInAdapter(creds CredentialResolver, baseURL string, ratePerSec float64) *LinkedInAdapter {
	if baseURL == "" {
		baseURL = "https://api.linkedin.com/v2"
	}
	return &LinkedInAdapter{
		creds:   creds,
		client:  newAPIClient(ratePerSec, 2),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

var linkedInWorkplaceType = map[string]string{
	"on_site": "ON_SITE",
	"hybrid":  "HYBRID",
	"remote":  "REMOTE",
}

var linkedInEmploymentType = map[string]string{
	"full_time":  "FULL_TIME",
	"part_time":  "PART_TIME",
	"contract":   "CONTRACT",
	"internship": "INTERNSHIP",
	"temporary":  "TEMPORARY",
}

type linkedInPosting struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Location       string                `json:"location"`
	WorkplaceType  string                `json:"workplaceType"`
	EmploymentType string                `json:"employmentType"`
	Compensation   *linkedInCompensation `json:"compensation,omitempty"`
	CompanyName    string                `json:"companyName"`
	CompanyPageURL string                `json:"companyPageUrl,omitempty"`
	ApplyURL       string                `json:"applyUrl"`
	ExternalJobID  string                `json:"externalJobPostingId"`
}

// linkedInCompensation 平台要求薪酬为嵌套对象
type linkedInCompensation struct {
	Currency  string `json:"currencyCode"`
	MinAmount int64  `json:"minAmount"`
	MaxAmount int64  `json:"maxAmount"`
}

func (a *LinkedInAdapter) buildPosting(p *JobPayload) linkedInPosting {
	posting := linkedInPosting{
		Title:          p.Title,
		Description:    p.Description,
		Location:       p.Location,
		WorkplaceType:  linkedInWorkplaceType[p.LocationType],
		EmploymentType: linkedInEmploymentType[p.EmploymentType],
		CompanyName:    p.Organization.Name,
		ApplyURL:       p.ApplyURL,
		ExternalJobID:  p.JobID,
	}
	if p.SalaryMin != nil && p.SalaryMax != nil {
		posting.Compensation = &linkedInCompensation{Currency: p.SalaryCurrency, MinAmount: *p.SalaryMin, MaxAmount: *p.SalaryMax}
	}
	return posting
}

func (a *LinkedInAdapter) Post(ctx context.Context, payload *JobPayload) Result {
	cred, err := a.creds.Resolve(ctx, model.PlatformLinkedIn, payload.Organization.ID)
	if err != nil {
		return Failure(err)
	}
	if cred == nil {
		// 无凭证时登记人工发布意向，由运营在平台后台完成
		logger.Info("linkedin manual posting required",
			zap.String("job_id", payload.JobID),
			zap.String("organization", payload.Organization.Name))
		return Result{Success: true, ExternalID: ManualIDPrefix + payload.JobID}
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := a.client.doJSON(ctx, http.MethodPost, a.baseURL+"/simpleJobPostings", cred.AccessToken, a.buildPosting(payload), &resp); err != nil {
		return Failure(err)
	}
	return Result{Success: true, ExternalID: resp.ID}
}

func (a *LinkedInAdapter) Update(ctx context.Context, payload *JobPayload, externalID string) Result {
	if strings.HasPrefix(externalID, ManualIDPrefix) {
		logger.Info("linkedin manual listing changed, update it in the board UI",
			zap.String("job_id", payload.JobID), zap.String("external_id", externalID))
		return Result{Success: true, ExternalID: externalID}
	}
	cred, err := a.creds.Resolve(ctx, model.PlatformLinkedIn, payload.Organization.ID)
	if err != nil {
		return Failure(err)
	}
	if cred == nil {
		return Result{Error: "no credential for linkedin update of " + externalID}
	}
	if err := a.client.doJSON(ctx, http.MethodPut, a.baseURL+"/simpleJobPostings/"+externalID, cred.AccessToken, a.buildPosting(payload), nil); err != nil {
		return Failure(err)
	}
	return Result{Success: true, ExternalID: externalID}
}

func (a *LinkedInAdapter) Remove(ctx context.Context, externalID string) Result {
	if strings.HasPrefix(externalID, ManualIDPrefix) {
		logger.Info("linkedin manual listing closed, remove it in the board UI",
			zap.String("external_id", externalID))
		return Result{Success: true}
	}
	cred, err := a.creds.ResolveGlobal(ctx, model.PlatformLinkedIn)
	if err != nil {
		return Failure(err)
	}
	if cred == nil {
		return Result{Error: "no credential for linkedin remove of " + externalID}
	}
	if err := a.client.doJSON(ctx, http.MethodDelete, a.baseURL+"/simpleJobPostings/"+externalID, cred.AccessToken, nil, nil); err != nil {
		return Failure(err)
	}
	return Result{Success: true}
}
