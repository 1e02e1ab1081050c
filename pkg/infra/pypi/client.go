package pypi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

// DefaultTopPackagesURL is the published top-5,000 PyPI packages dataset
const DefaultTopPackagesURL = "https://raw.githubusercontent.com/hugovk/top-pypi-packages/main/top-pypi-packages-30-days.min.json"

type client struct {
	url        string
	httpClient *http.Client
}

// Option is a functional option for the client
type Option func(*client)

// WithURL overrides the top-packages dataset URL
func WithURL(url string) Option {
	return func(c *client) {
		c.url = url
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the top-PyPI-packages dataset
func NewClient(opts ...Option) interfaces.TopPackagesClient {
	c := &client{
		url:        DefaultTopPackagesURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type topPackagesResponse struct {
	Rows []struct {
		Project       string `json:"project"`
		DownloadCount int64  `json:"download_count"`
	} `json:"rows"`
}

// FetchTopPackages downloads and parses the top-packages dataset
func (c *client) FetchTopPackages(ctx context.Context) ([]*model.Package, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create top packages request", goerr.V("url", c.url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch top packages", goerr.V("url", c.url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for top packages",
			goerr.V("url", c.url),
			goerr.V("status", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read top packages response")
	}

	var data topPackagesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, goerr.Wrap(err, "failed to parse top packages response")
	}

	packages := make([]*model.Package, 0, len(data.Rows))
	for _, row := range data.Rows {
		packages = append(packages, model.NewPackage(row.Project, row.DownloadCount))
	}

	return packages, nil
}
