// Package platform pulls user accounts out of the external cloud systems
// (learning and assessment tools) and lands them in the raw ingest table
// behind v_hr_cloud_users. Each platform has its own authentication quirks;
// all of them reduce to "fetch the user list as JSON".
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

const httpTimeout = 15 * time.Second

// Client fetches the full current account list of one cloud platform.
type Client interface {
	Name() string
	FetchAccounts(ctx context.Context) ([]model.CloudAccount, error)
}

// ─── Static-token LMS (Eduson-style) ─────────────────────────────────────────

// LmsClient talks to the learning platform, which authenticates every call
// with a static API token header and returns the whole user list at once.
type LmsClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewLmsClient constructs an LmsClient with a shared HTTP client.
func NewLmsClient(baseURL, token string) *LmsClient {
	return &LmsClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Name implements Client.
func (c *LmsClient) Name() string { return "lms" }

// lmsUser mirrors one entry of the LMS /users response.
type lmsUser struct {
	Email      string `json:"email"`
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
}

// FetchAccounts retrieves the complete user list. Returns nil without error
// when credentials are not configured — the sync round simply skips the
// platform and logs it.
func (c *LmsClient) FetchAccounts(ctx context.Context) ([]model.CloudAccount, error) {
	if c.baseURL == "" || c.token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Token", c.token)

	body, err := doJSON(c.client, req)
	if err != nil {
		return nil, err
	}

	var users []lmsUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	accounts := make([]model.CloudAccount, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, model.CloudAccount{
			HrSystem:   c.Name(),
			Email:      u.Email,
			LastName:   u.LastName,
			FirstName:  u.FirstName,
			MiddleName: u.MiddleName,
		})
	}
	return accounts, nil
}

// ─── OAuth assessment platform (Coursera-style) ──────────────────────────────

const (
	assessPageSize = 100
	// Access tokens live 30 minutes and the refresh endpoint has a 15-20
	// minute cooldown, so anything younger than 20 minutes is reused.
	assessTokenMaxAge = 20 * time.Minute
)

// AssessClient talks to the assessment platform, which requires an OAuth
// access token refreshed on a ~30 minute cycle and paginates every listing.
type AssessClient struct {
	baseURL      string
	tokenURL     string
	refreshToken string
	orgID        string
	tokens       *TokenStore
	client       *http.Client
	now          func() time.Time
}

// NewAssessClient constructs an AssessClient backed by the shared token store.
func NewAssessClient(baseURL, tokenURL, refreshToken, orgID string, tokens *TokenStore) *AssessClient {
	return &AssessClient{
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		refreshToken: refreshToken,
		orgID:        orgID,
		tokens:       tokens,
		client:       &http.Client{Timeout: httpTimeout},
		now:          time.Now,
	}
}

// Name implements Client.
func (c *AssessClient) Name() string { return "assess" }

// accessToken returns a usable token, refreshing through the OAuth endpoint
// only when the cached one has aged out.
func (c *AssessClient) accessToken(ctx context.Context) (string, error) {
	if cached, ok, err := c.tokens.Load(ctx, c.Name()); err != nil {
		return "", err
	} else if ok && cached.Fresh(c.now().UTC(), assessTokenMaxAge) {
		return cached.AccessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := doJSON(c.client, req)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}

	tc := TokenCache{AccessToken: resp.AccessToken, UpdatedAt: c.now().UTC()}
	if err := c.tokens.Save(ctx, c.Name(), tc, assessTokenMaxAge); err != nil {
		return "", err
	}
	return tc.AccessToken, nil
}

// assessPage mirrors one page of the paginated users listing.
type assessPage struct {
	Elements []struct {
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	} `json:"elements"`
	Paging struct {
		Total int `json:"total"`
	} `json:"paging"`
}

// FetchAccounts walks every page of the org's user listing. The platform
// reports a single fullName in "Last First Middle" order; it is split
// positionally here so the ingest table carries the same shape for every
// platform.
func (c *AssessClient) FetchAccounts(ctx context.Context) ([]model.CloudAccount, error) {
	if c.baseURL == "" || c.refreshToken == "" {
		return nil, nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var accounts []model.CloudAccount
	start, total := 0, 1
	for start < total {
		page, err := c.fetchPage(ctx, token, start)
		if err != nil {
			return nil, fmt.Errorf("page at %d: %w", start, err)
		}

		for _, el := range page.Elements {
			acct := model.CloudAccount{HrSystem: c.Name(), Email: el.Email}
			parts := strings.Fields(el.FullName)
			if len(parts) > 0 {
				acct.LastName = parts[0]
			}
			if len(parts) > 1 {
				acct.FirstName = parts[1]
			}
			if len(parts) > 2 {
				acct.MiddleName = parts[2]
			}
			accounts = append(accounts, acct)
		}

		total = page.Paging.Total
		start += assessPageSize
		if len(page.Elements) == 0 {
			break
		}
	}

	return accounts, nil
}

func (c *AssessClient) fetchPage(ctx context.Context, token string, start int) (*assessPage, error) {
	endpoint := fmt.Sprintf("%s/organizations/%s/users", c.baseURL, c.orgID)

	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("limit", strconv.Itoa(assessPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := doJSON(c.client, req)
	if err != nil {
		return nil, err
	}

	var page assessPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &page, nil
}

// ─── Shared HTTP plumbing ────────────────────────────────────────────────────

// doJSON executes req and returns the response body, treating any non-200
// status as an error carrying the body for diagnostics.
func doJSON(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http %s: %w", req.Method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
