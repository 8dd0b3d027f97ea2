package strava

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/structures"
)

// perPage caps one paginated activities request; the competition window is
// expected to fit in a single page.
const perPage = 200

// TokenTriple is the provider's token response: what gets persisted back to
// the credential store after a refresh.
type TokenTriple struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Athlete is the profile subset returned alongside an authorization-code
// exchange.
type Athlete struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	ProfileMedium string `json:"profile_medium"`
}

// ExchangeResult is the full response of an authorization-code exchange.
type ExchangeResult struct {
	TokenTriple
	Athlete Athlete `json:"athlete"`
}

type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*TokenTriple, error)
}

type ActivityFetcher interface {
	FetchActivities(ctx context.Context, accessToken string, athleteID int64, after time.Time) ([]models.RawActivity, error)
}

type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*ExchangeResult, error)
	AuthorizeURL() string
}

// Client talks to the Strava API. It implements TokenRefresher,
// ActivityFetcher and CodeExchanger.
type Client struct {
	conf       *structures.Config
	httpClient *http.Client
	cache      providers.CacheProviderInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	return &Client{
		conf:       conf,
		httpClient: &http.Client{Timeout: conf.Strava.Timeout},
		cache:      cache,
		logger:     logger,
		metrics:    metrics,
	}
}

func (c *Client) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", c.conf.Strava.ClientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.conf.Strava.RedirectURI)
	params.Set("approval_prompt", "force")
	params.Set("scope", "read,activity:read_all")
	return "https://www.strava.com/oauth/authorize?" + params.Encode()
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenTriple, error) {
	data := url.Values{}
	data.Set("client_id", c.conf.Strava.ClientID)
	data.Set("client_secret", c.conf.Strava.ClientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	var triple TokenTriple
	if err := c.postToken(ctx, data, &triple); err != nil {
		return nil, &AuthError{Err: err}
	}
	if triple.AccessToken == "" {
		return nil, &AuthError{Err: fmt.Errorf("token endpoint returned no access token")}
	}
	return &triple, nil
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*ExchangeResult, error) {
	data := url.Values{}
	data.Set("client_id", c.conf.Strava.ClientID)
	data.Set("client_secret", c.conf.Strava.ClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)

	var result ExchangeResult
	if err := c.postToken(ctx, data, &result); err != nil {
		return nil, &AuthError{Err: err}
	}
	if result.AccessToken == "" || result.Athlete.ID == 0 {
		return nil, &AuthError{Err: fmt.Errorf("token endpoint returned incomplete exchange response")}
	}
	return &result, nil
}

func (c *Client) postToken(ctx context.Context, data url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.Strava.TokenURL,
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.metrics.IncProviderCalls("token")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed token response: %w", err)
	}
	return nil
}

func (c *Client) FetchActivities(ctx context.Context, accessToken string, athleteID int64, after time.Time) ([]models.RawActivity, error) {
	cacheKey := "activities:" + strconv.FormatInt(athleteID, 10)
	if data, ok := c.cache.Get(cacheKey); ok {
		var cached []models.RawActivity
		if err := json.Unmarshal(data, &cached); err == nil {
			c.logger.Debugf(providers.TypeStrava, "Serving cached activities for athlete %d", athleteID)
			return cached, nil
		}
		c.cache.Del(cacheKey)
	}

	u := c.conf.Strava.APIURL + "/athlete/activities"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	q := req.URL.Query()
	q.Set("after", strconv.FormatInt(after.Unix(), 10))
	q.Set("per_page", strconv.Itoa(perPage))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)

	c.metrics.IncProviderCalls("activities")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{Err: fmt.Errorf("activities endpoint status %d: %s", resp.StatusCode, string(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	var activities []models.RawActivity
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("malformed activities response: %w", err)}
	}

	c.cache.Set(cacheKey, data)
	return activities, nil
}
