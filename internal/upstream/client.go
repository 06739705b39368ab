// Package upstream holds the thin HTTP clients for the three collaborator
// services. Bodies are decoded into untyped JSON and interpreted by the
// schema package; a body that fails to decode is reported as nil, not as an
// error, because several collaborators answer with empty or non-JSON bodies
// on error paths.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Reply is one collaborator answer: status, headers, and the decoded JSON
// body (nil when the body was empty or not JSON).
type Reply struct {
	Status int
	Header http.Header
	Body   any
}

func (r *Reply) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Record returns the body as a JSON object, or nil.
func (r *Reply) Record() map[string]any {
	m, _ := r.Body.(map[string]any)
	return m
}

// Client issues JSON requests against one collaborator's base URL using the
// shared instrumented http.Client.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{baseURL: baseURL, client: client}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) GetJSON(ctx context.Context, path string) (*Reply, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Reply, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *Client) PutJSON(ctx context.Context, path string, payload any) (*Reply, error) {
	return c.do(ctx, http.MethodPut, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*Reply, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	reply := &Reply{Status: resp.StatusCode, Header: resp.Header}

	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		return reply, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err == nil {
		reply.Body = decoded
	}
	return reply, nil
}
