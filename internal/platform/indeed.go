package platform

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/pkg/logger"
)

// FeedIDPrefix marks listings syndicated passively through the hosted feed.
const FeedIDPrefix = "feed:"

// IndeedAdapter integrates the feed-crawled board. The primary integration is
// passive: the board's crawler scrapes the hosted listing feed, so without an
// API credential every operation is a local no-op that only flags the job for
// feed inclusion. With a resolvable credential the adapter upgrades to the
// partner API.
type IndeedAdapter struct {
	creds   CredentialResolver
	client  *apiClient
	baseURL string
}

func NewIndeedAdapter(creds CredentialResolver, baseURL string, ratePerSec float64) *IndeedAdapter {
	if baseURL == "" {
		baseURL = "https://apis.indeed.com/partner"
	}
	return &IndeedAdapter{
		creds:   creds,
		client:  newAPIClient(ratePerSec, 2),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// indeedJobType maps internal employment types onto Indeed's enumeration.
var indeedJobType = map[string]string{
	"full_time":  "FULL_TIME",
	"part_time":  "PART_TIME",
	"contract":   "CONTRACT",
	"internship": "INTERNSHIP",
	"temporary":  "TEMPORARY",
}

type indeedListing struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Remote      bool          `json:"remote"`
	JobType     string        `json:"jobType"`
	Salary      *indeedSalary `json:"salary,omitempty"`
	Category    string        `json:"category,omitempty"`
	Company     indeedCompany `json:"company"`
	ApplyURL    string        `json:"applyUrl"`
	ExpiresAt   string        `json:"expiresAt,omitempty"`
	SourceRef   string        `json:"sourceRef"`
}

type indeedSalary struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
	Period   string `json:"period"`
}

type indeedCompany struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

func (a *IndeedAdapter) buildListing(p *JobPayload) indeedListing {
	l := indeedListing{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Remote:      p.LocationType == "remote",
		JobType:     indeedJobType[p.EmploymentType],
		Category:    p.Category,
		Company:     indeedCompany{Name: p.Organization.Name, LogoURL: p.Organization.LogoURL},
		ApplyURL:    p.ApplyURL,
		SourceRef:   p.JobID,
	}
	if p.SalaryMin != nil && p.SalaryMax != nil {
		l.Salary = &indeedSalary{Min: *p.SalaryMin, Max: *p.SalaryMax, Currency: p.SalaryCurrency, Period: "YEARLY"}
	}
	if p.ClosesAt != nil {
		l.ExpiresAt = p.ClosesAt.UTC().Format("2006-01-02")
	}
	return l
}

func (a *IndeedAdapter) Post(ctx context.Context, payload *JobPayload) Result {
	cred, err := a.creds.Resolve(ctx, model.PlatformIndeed, payload.Organization.ID)
	if err != nil {
		return Failure(err)
	}
	if cred == nil {
		// 无凭证走 feed 路径：下次抓取自动收录，无需出站调用
		return Result{Success: true, ExternalID: FeedIDPrefix + payload.JobID}
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := a.client.doJSON(ctx, http.MethodPost, a.baseURL+"/v2/listings", cred.AccessToken, a.buildListing(payload), &resp); err != nil {
		return Failure(err)
	}
	return Result{Success: true, ExternalID: resp.ID}
}

func (a *IndeedAdapter) Update(ctx context.Context, payload *JobPayload, externalID string) Result {
	if strings.HasPrefix(externalID, FeedIDPrefix) {
		// feed 条目在下次抓取时自动刷新
		return Result{Success: true, ExternalID: externalID}
	}
	cred, err := a.creds.Resolve(ctx, model.PlatformIndeed, payload.Organization.ID)
	if err != nil {
		return Failure(err)
	}
	if cred == nil {
		return Result{Error: "no credential for indeed update of " + externalID}
	}
	if err := a.client.doJSON(ctx, http.MethodPut, a.baseURL+"/v2/listings/"+externalID, cred.AccessToken, a.buildListing(payload), nil); err != nil {
		return Failure(err)
	}
	return Result{Success: true, ExternalID: externalID}
}

func (a *IndeedAdapter) Remove(ctx context.Context, externalID string) Result {
	if strings.HasPrefix(externalID, FeedIDPrefix) {
		// 职位离开 feed 后爬虫自行下架
		return Result{Success: true}
	}
	// remove 可能只带 externalID 调用，凭证退化为全局查找
	cred, err := a.creds.ResolveGlobal(ctx, model.PlatformIndeed)
	if err != nil {
		return Failure(err)
	}
	if cred == nil {
		return Result{Error: "no credential for indeed remove of " + externalID}
	}
	if err := a.client.doJSON(ctx, http.MethodDelete, a.baseURL+"/v2/listings/"+externalID, cred.AccessToken, nil, nil); err != nil {
		return Failure(err)
	}
	logger.Info("indeed listing removed", zap.String("external_id", externalID))
	return Result{Success: true}
}
