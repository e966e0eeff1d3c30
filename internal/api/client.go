package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/groophq/groopsync/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Client speaks the groop backend's REST contract. Session credentials ride
// on a cookie jar, so one Client instance corresponds to one browser session.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// LoginURL and LogoutURL are navigation targets for the full-page redirect
// auth flow; the client never requests them itself.
func (c *Client) LoginURL() string  { return c.endpoint("/auth/login", nil) }
func (c *Client) LogoutURL() string { return c.endpoint("/auth/logout", nil) }

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	l := logger.FromContext(ctx)

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.send(req, out, l)
}

func (c *Client) send(req *http.Request, out any, l *zap.Logger) error {
	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		l.Error("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return errors.Wrap(err, "request failed")
	}
	defer res.Body.Close()

	l.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", res.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if res.StatusCode >= 400 {
		return c.responseError(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return NewError(ErrorCodeTransport, res.StatusCode, "failed to decode response")
	}
	return nil
}

// responseError maps status codes onto the client error taxonomy, carrying
// the server-provided message through when one is present.
func (c *Client) responseError(res *http.Response) *Error {
	message := res.Status

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			message = payload.Error
		} else if payload.Message != "" {
			message = payload.Message
		}
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return NewError(ErrorCodeUnauthorized, res.StatusCode, message)
	case http.StatusNotFound:
		return NewError(ErrorCodeNotFound, res.StatusCode, message)
	case http.StatusConflict:
		return NewError(ErrorCodeConflict, res.StatusCode, message)
	default:
		return NewError(ErrorCodeServer, res.StatusCode, message)
	}
}
