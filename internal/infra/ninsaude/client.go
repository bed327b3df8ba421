package ninsaude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/metrics"
)

// Client talks to the Ninsaúde REST API. It keeps no token between calls.
type Client struct {
	baseURL      string
	refreshToken string
	account      string

	oauth      *oauth2.Config
	httpClient *http.Client

	logger  logger.Logger
	metrics *metrics.Metrics
}

type Config struct {
	BaseURL      string // e.g. "https://api.ninsaude.com/v1"
	RefreshToken string
	Account      string // optional, sent with the token exchange
	Timeout      time.Duration
}

func New(cfg Config, log logger.Logger, m *metrics.Metrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ninsaude: BaseURL is required")
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("ninsaude: RefreshToken is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL:      baseURL,
		refreshToken: cfg.RefreshToken,
		account:      cfg.Account,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		metrics:    m,
	}, nil
}

var _ domain.Gateway = (*Client)(nil)

// do performs one authenticated JSON call. The response body is always closed
// before returning; non-2xx answers become *domain.UpstreamError carrying the body.
func (c *Client) do(
	ctx context.Context,
	op string,
	method string,
	path string,
	query url.Values,
	token string,
	in any,
) ([]byte, error) {

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("ninsaude %s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("ninsaude %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(op, 0, time.Since(start))
		return nil, &domain.UpstreamError{Kind: domain.UpstreamAPI, Operation: op, Err: err}
	}
	defer resp.Body.Close()

	c.metrics.ObserveUpstream(op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamAPI, Operation: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("ninsaude call",
		"operation", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{
			Kind:       domain.UpstreamAPI,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       raw,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return raw, nil
}

func decode(op string, raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &domain.UpstreamError{Kind: domain.UpstreamAPI, Operation: op, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.UpstreamError{
			Kind:      domain.UpstreamAPI,
			Operation: op,
			Body:      raw,
			Err:       fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}
