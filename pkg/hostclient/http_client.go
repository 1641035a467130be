package hostclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// HTTPConfig configures the HTTP host client.
type HTTPConfig struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

// HTTPClient talks to the host runtime's callback endpoints.
type HTTPClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPClient builds a client for the given host endpoint.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("hostclient: endpoint is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		endpoint: endpoint,
		token:    cfg.Token,
		client:   httpClient,
	}, nil
}

// FetchData posts the domain selector and query to /getData. The response
// body is kept raw; the controller decodes it per page.
func (c *HTTPClient) FetchData(ctx context.Context, domain, query string) (mdt.RecordCollection, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/getData", dataRequest{Type: domain, Query: query}, &raw); err != nil {
		return mdt.RecordCollection{}, err
	}
	return mdt.RecordCollection{Domain: domain, Raw: raw}, nil
}

// Close tells the host the terminal was closed by the user.
func (c *HTTPClient) Close(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/close", struct{}{}, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("hostclient: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("hostclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hostclient: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("hostclient: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("hostclient: decode response: %w", err)
	}
	return nil
}

type dataRequest struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

var _ mdt.HostClient = (*HTTPClient)(nil)
