package learning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shelfcheck/internal/config"
	"shelfcheck/internal/services"
)

const userAgent = "shelfcheck/0.1.0"

// HTTPDoer describes the HTTP client used by the learning service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpClient struct {
	endpoint string
	token    string
	client   HTTPDoer
}

// NewConfiguredClient returns an HTTP-backed client when an endpoint is
// configured and the local fallback otherwise.
func NewConfiguredClient(cfg *config.Config) Client {
	if cfg == nil {
		return NewLocalClient()
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Learning.URL), "/")
	if endpoint == "" {
		return NewLocalClient()
	}
	timeout := time.Duration(cfg.Learning.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewHTTPClient(endpoint, cfg.Learning.APIToken, &http.Client{Timeout: timeout})
}

// NewHTTPClient constructs an HTTP-backed learning client.
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

// SubmitValidation posts the sheet's records and decodes the outcome.
// Transport failures and 5xx responses classify as retryable; 4xx responses
// indicate a submission the service will never accept.
func (c *httpClient) SubmitValidation(ctx context.Context, submission Submission) (*Outcome, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "learning", "submit", "encode submission", err)
	}

	url := c.endpoint + "/v1/validations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "learning", "submit", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "learning", "submit", "post validation records", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "learning", "submit", "read response", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, services.Wrap(services.ErrExternalService, "learning", "submit",
			fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, services.Wrap(services.ErrValidation, "learning", "submit",
			fmt.Sprintf("service rejected submission with %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var outcome Outcome
	if err := json.Unmarshal(payload, &outcome); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "learning", "submit", "decode response", err)
	}
	return &outcome, nil
}
