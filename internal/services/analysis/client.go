package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/config"
	"shelfcheck/internal/services"
)

// SnapshotRef identifies the inventory snapshot the scorer should analyze.
type SnapshotRef struct {
	StoreID    string `json:"store_id,omitempty"`
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// Client defines the analysis-service surface the workflow consumes.
type Client interface {
	GetCandidates(ctx context.Context, ref SnapshotRef) (*candidate.Set, error)
}

// HTTPDoer describes the HTTP client used by the analysis service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpClient struct {
	endpoint string
	token    string
	client   HTTPDoer
}

// NewHTTPClient constructs an HTTP-backed analysis client.
func NewHTTPClient(endpoint, token string, client HTTPDoer) Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		token:    strings.TrimSpace(token),
		client:   client,
	}
}

// NewConfiguredClient returns an HTTP-backed client when an endpoint is
// configured, or nil when candidates can only arrive via snapshot files.
func NewConfiguredClient(cfg *config.Config) Client {
	if cfg == nil {
		return nil
	}
	endpoint := strings.TrimSpace(cfg.Analysis.URL)
	if endpoint == "" {
		return nil
	}
	timeout := time.Duration(cfg.Analysis.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return NewHTTPClient(endpoint, cfg.Analysis.APIToken, &http.Client{Timeout: timeout})
}

func (c *httpClient) GetCandidates(ctx context.Context, ref SnapshotRef) (*candidate.Set, error) {
	url := c.endpoint + "/v1/candidates"
	if ref.SnapshotID != "" {
		url += "?snapshot=" + ref.SnapshotID
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "analysis", "get candidates", "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if ref.StoreID != "" {
		req.Header.Set("X-Store-ID", ref.StoreID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "analysis", "get candidates", "fetch scored candidates", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "analysis", "get candidates", "read response", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, services.Wrap(services.ErrExternalService, "analysis", "get candidates",
			fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, services.Wrap(services.ErrValidation, "analysis", "get candidates",
			fmt.Sprintf("service rejected request with %d", resp.StatusCode), nil)
	}

	set, err := candidate.DecodeSnapshot(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "analysis", "get candidates", "decode candidate set", err)
	}
	return set, nil
}

// LoadSnapshotFile reads a scored-candidate export from disk. This is the
// common path for stores that run the analysis pass as a batch job.
func LoadSnapshotFile(path string) (*candidate.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "analysis", "load snapshot", fmt.Sprintf("read %s", path), err)
	}
	set, err := candidate.DecodeSnapshot(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "analysis", "load snapshot", "decode candidate set", err)
	}
	return set, nil
}

// EncodeSnapshot serializes a candidate set in the snapshot file format.
// Useful for tests and for re-exporting a set retained after completion.
func EncodeSnapshot(set *candidate.Set) ([]byte, error) {
	return json.MarshalIndent(set, "", "  ")
}
