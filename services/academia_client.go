package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/guilbd/analise-apostas/config"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// AcademiaClient fetches pages from Academia das Apostas Brasil. Requests
// are rate limited so collection runs stay polite to the source.
type AcademiaClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAcademiaClient builds the client. The site requires an age-check
// cookie before serving statistics pages.
func NewAcademiaClient(cfg *config.Config) *AcademiaClient {
	jar, _ := cookiejar.New(nil)

	if base, err := url.Parse(cfg.SourceBaseURL); err == nil {
		jar.SetCookies(base, []*http.Cookie{{Name: "age_check", Value: "1", Path: "/"}})
	}

	timeout := cfg.SourceTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AcademiaClient{
		baseURL: cfg.SourceBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.ScrapeRate), maxInt(cfg.ScrapeBurst, 1)),
	}
}

// BaseURL returns the configured source root.
func (c *AcademiaClient) BaseURL() string {
	return c.baseURL
}

// Get fetches one page, honoring the rate limit and the context deadline.
func (c *AcademiaClient) Get(ctx context.Context, pageURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", pageURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request to %s returned status %d", pageURL, resp.StatusCode)
	}
	return resp, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
