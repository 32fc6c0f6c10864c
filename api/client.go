package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go-storefront/models"
)

const maxResponseBody = 4 << 20

// TokenSource is what the client needs from the session: the current tokens,
// a place to put refreshed ones and a way to end the session.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	Refreshed(ctx context.Context, pair models.TokenPair)
	Expire(ctx context.Context)
}

// Client calls the storefront backend. A client bound to a TokenSource
// attaches the bearer token and recovers from a 401 with a single refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        logrus.FieldLogger
}

// NewClient creates an unauthenticated client for baseURL (e.g. http://localhost:8080/api)
func NewClient(baseURL string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// WithTokens returns a copy of the client bound to ts
func (c *Client) WithTokens(ts TokenSource) *Client {
	cc := *c
	cc.tokens = ts
	return &cc
}

// Do performs one backend call. body is JSON-encoded when non-nil; out receives the
// decoded response when non-nil. A *string out also accepts a plain-text answer.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		payload = b
	}

	err := c.send(ctx, method, path, query, payload, c.accessToken(), out)
	if c.tokens == nil || !IsAuthError(err) {
		return err
	}

	// exactly one refresh per original request
	pair, rerr := c.refresh(ctx)
	if rerr != nil {
		c.log.WithError(rerr).WithField("path", path).Warn("token refresh failed, ending session")
		c.tokens.Expire(ctx)
		var ae *AuthError
		errors.As(err, &ae)
		return &AuthError{Message: ae.Message, Err: rerr}
	}
	c.tokens.Refreshed(ctx, pair)

	// the replay is never refreshed again; a second 401 surfaces as is
	return c.send(ctx, method, path, query, payload, pair.AccessToken, out)
}

func (c *Client) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}

func (c *Client) refresh(ctx context.Context) (models.TokenPair, error) {
	return c.exchangeRefreshToken(ctx, c.tokens.RefreshToken())
}

// exchangeRefreshToken posts /auth/refresh without a bearer token and never retries
func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var pair models.TokenPair
	if refreshToken == "" {
		return pair, errors.New("no refresh token")
	}
	q := url.Values{"refreshToken": {refreshToken}}
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", q, nil, "", &pair); err != nil {
		return pair, err
	}
	if pair.AccessToken == "" {
		return pair, errors.New("refresh response carried no access token")
	}
	return pair, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("backend call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: messageFrom(resp.StatusCode, respBody)}
	case resp.StatusCode >= 400:
		return &ServerError{Status: resp.StatusCode, Message: messageFrom(resp.StatusCode, respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok && !json.Valid(respBody) {
		*s = string(respBody)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
