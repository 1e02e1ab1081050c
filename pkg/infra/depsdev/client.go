package depsdev

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the deps.dev API endpoint
const DefaultBaseURL = "https://deps.dev"

const (
	defaultMaxRetries = 10
	defaultBackoff    = 500 * time.Millisecond
	defaultRateLimit  = 20 // requests per second
)

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// Option is a functional option for the client
type Option func(*client)

// WithBaseURL overrides the deps.dev endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets the maximum request rate per second
func WithRateLimit(perSecond float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithMaxRetries sets the retry budget for transient failures
func WithMaxRetries(n int) Option {
	return func(c *client) {
		c.maxRetries = n
	}
}

// WithBackoff sets the base backoff interval between retries
func WithBackoff(d time.Duration) Option {
	return func(c *client) {
		c.backoff = d
	}
}

// NewClient creates a deps.dev scorecard client
func NewClient(opts ...Option) interfaces.ScorecardClient {
	c := &client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type versionResponse struct {
	Version struct {
		Projects []struct {
			ScorecardV2 *struct {
				Check []struct {
					Name  string `json:"name"`
					Score int    `json:"score"`
				} `json:"check"`
			} `json:"scorecardV2"`
		} `json:"projects"`
	} `json:"version"`
}

// FetchChecks fetches scorecard check values for a PyPI package. When the
// same check appears with different scores across the package's source
// projects, the maximum non-negative score wins. A package unknown to
// deps.dev yields a nil map, not an error.
func (c *client) FetchChecks(ctx context.Context, pkgName string) (map[string]int, error) {
	url := fmt.Sprintf("%s/_/s/pypi/p/%s/v/", c.baseURL, pkgName)

	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}

	var data versionResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, goerr.Wrap(err, "failed to parse deps.dev response", goerr.V("package", pkgName))
	}

	var checks map[string]int
	for _, project := range data.Version.Projects {
		if project.ScorecardV2 == nil {
			continue
		}
		for _, check := range project.ScorecardV2.Check {
			// deps.dev denotes a missing score with a negative value
			if check.Score < 0 {
				continue
			}
			if current, ok := checks[check.Name]; ok && current > check.Score {
				continue
			}
			if checks == nil {
				checks = map[string]int{}
			}
			checks[check.Name] = check.Score
		}
	}

	return checks, nil
}

// get performs a rate-limited GET with retries on transport errors, 429 and
// 5xx responses. Backoff doubles per attempt from the base interval.
func (c *client) get(ctx context.Context, url string) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(float64(c.backoff) * math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, 0, goerr.Wrap(ctx.Err(), "request cancelled during backoff", goerr.V("url", url))
			case <-time.After(wait):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, goerr.Wrap(err, "rate limiter wait failed", goerr.V("url", url))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, goerr.Wrap(err, "failed to create request", goerr.V("url", url))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			lastErr = goerr.New("retryable status code", goerr.V("url", url), goerr.V("status", resp.StatusCode))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, goerr.Wrap(lastErr, "request failed after retries",
		goerr.V("url", url),
		goerr.V("max_retries", c.maxRetries),
	)
}
