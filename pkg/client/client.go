// Package client is the Go SDK for the EventsApp API. It keeps a local
// session, projects event queries with client-side refinement and paging,
// and reconciles image sets against the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope mirrors the server's response shape. Data stays raw until the
// caller names a target type.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
	Field   string          `json:"field,omitempty"`
}

// do performs a JSON round trip. Transport failures come back wrapped in
// ErrNetwork so callers can tell "no authoritative answer" from a refusal.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %v", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.roundTrip(req, out)
}

// upload posts files as a multipart batch under the "images" field.
func (c *Client) upload(ctx context.Context, path string, filePaths []string, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, fp := range filePaths {
		f, err := os.Open(fp)
		if err != nil {
			return fmt.Errorf("failed to open %s: %v", fp, err)
		}
		part, err := mw.CreateFormFile("images", filepath.Base(fp))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to stage %s: %v", fp, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	return c.roundTrip(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) roundTrip(req *http.Request, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", api.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: malformed response: %v", api.ErrNetwork, err)
	}

	if !env.Success {
		if env.Code == api.CodeValidation && env.Field != "" {
			return api.NewValidationError(env.Field, env.Error)
		}
		return api.ErrorFromCode(env.Code, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: malformed payload: %v", api.ErrNetwork, err)
		}
	}
	return nil
}
