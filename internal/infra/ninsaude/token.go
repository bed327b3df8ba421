package ninsaude

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
)

// AccessToken exchanges the refresh token for a new access token. A fresh token
// source is built per call, so every booking re-authenticates.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	httpClient := c.httpClient
	if c.account != "" {
		httpClient = &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: &accountTransport{account: c.account, base: c.httpClient.Transport},
		}
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	start := time.Now()
	tok, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.refreshToken}).Token()
	if err != nil {
		upErr := &domain.UpstreamError{Kind: domain.UpstreamAuth, Operation: "token", Err: err}

		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			upErr.StatusCode = rerr.Response.StatusCode
			upErr.Body = rerr.Body
		}
		c.metrics.ObserveUpstream("token", upErr.StatusCode, time.Since(start))
		return "", upErr
	}
	c.metrics.ObserveUpstream("token", http.StatusOK, time.Since(start))

	return tok.AccessToken, nil
}

// accountTransport adds the account field to the form-encoded token request.
type accountTransport struct {
	account string
	base    http.RoundTripper
}

func (t *accountTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if req.Body == nil {
		return base.RoundTrip(req)
	}

	raw, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, err
	}

	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}
	form.Set("account", t.account)
	encoded := form.Encode()

	out := req.Clone(req.Context())
	out.Body = io.NopCloser(strings.NewReader(encoded))
	out.ContentLength = int64(len(encoded))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(encoded)), nil
	}

	return base.RoundTrip(out)
}
