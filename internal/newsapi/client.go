// Package newsapi fetches raw article records from a NewsAPI-compatible
// feed. The client paginates /v2/everything, rate-limits its own
// requests, and returns whatever pages it managed to fetch when a later
// page fails.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://newsapi.org"
	DefaultQuery    = "world OR international OR global"
	DefaultDays     = 30
	DefaultPageSize = 100
	DefaultMaxPages = 2
)

type Client struct {
	base    url.URL
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing requests; the free NewsAPI tier tolerates
// very little burst.
func WithRateLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL, apiKey string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		base:    *u,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchParams narrows one fetch run. Zero values take defaults.
type FetchParams struct {
	Query    string
	Days     int
	PageSize int
	MaxPages int
}

func (p *FetchParams) applyDefaults() {
	if p.Query == "" {
		p.Query = DefaultQuery
	}
	if p.Days <= 0 {
		p.Days = DefaultDays
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.MaxPages <= 0 {
		p.MaxPages = DefaultMaxPages
	}
}

type everythingResponse struct {
	Status       string              `json:"status"`
	TotalResults int                 `json:"totalResults"`
	Articles     []domain.RawArticle `json:"articles"`
	Code         string              `json:"code"`
	Message      string              `json:"message"`
}

// FetchEverything pulls up to MaxPages pages of coverage from the last
// Days days. A page failure stops pagination but keeps the pages
// already fetched; only a first-page failure is an error.
func (c *Client) FetchEverything(ctx context.Context, params FetchParams) ([]domain.RawArticle, error) {
	params.applyDefaults()

	to := c.now().UTC()
	from := to.AddDate(0, 0, -params.Days)

	var all []domain.RawArticle
	for page := 1; page <= params.MaxPages; page++ {
		articles, err := c.fetchPage(ctx, params, from, to, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			c.logger.Warn("feed page fetch failed, keeping earlier pages",
				"page", page, "fetched", len(all), "error", err)
			break
		}
		all = append(all, articles...)
		if len(articles) < params.PageSize {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, params FetchParams, from, to time.Time, page int) ([]domain.RawArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.base
	u.Path = "/v2/everything"
	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	q.Set("apiKey", c.apiKey)
	q.Set("pageSize", strconv.Itoa(params.PageSize))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed page %d: %w", page, err)
	}
	defer resp.Body.Close()

	var decoded everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode feed page %d: %w", page, err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Status != "ok" {
		return nil, fmt.Errorf("feed page %d: status %d code=%q message=%q",
			page, resp.StatusCode, decoded.Code, decoded.Message)
	}

	return decoded.Articles, nil
}
