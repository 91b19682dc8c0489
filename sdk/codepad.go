// Package codepad provides a Go client for the codepad API.
//
// Usage:
//
//	client := codepad.New("http://localhost:8080")
//
//	ws, err := client.ChangeLanguage(ctx, 50)
//	result, err := client.Run(ctx)
//	fmt.Println(result.Output)
package codepad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to a codepad server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client. baseURL should be the root URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequest[HealthResponse](ctx, c, http.MethodGet, "/healthz", nil, http.StatusOK)
}

// Languages lists the supported languages.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	out, err := doRequest[languagesResponse](ctx, c, http.MethodGet, "/languages", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Languages, nil
}

// Workspace returns the current editor state.
func (c *Client) Workspace(ctx context.Context) (*Workspace, error) {
	return doRequest[Workspace](ctx, c, http.MethodGet, "/workspace", nil, http.StatusOK)
}

// SetSource replaces the editor text.
func (c *Client) SetSource(ctx context.Context, source string) error {
	_, err := doRequest[statusResponse](ctx, c, http.MethodPut, "/workspace/source",
		map[string]string{"source": source}, http.StatusOK)
	return err
}

// SetStdin replaces the program input.
func (c *Client) SetStdin(ctx context.Context, stdin string) error {
	_, err := doRequest[statusResponse](ctx, c, http.MethodPut, "/workspace/stdin",
		map[string]string{"stdin": stdin}, http.StatusOK)
	return err
}

// ChangeLanguage switches language. The editor text is replaced with the
// language's sample.
func (c *Client) ChangeLanguage(ctx context.Context, languageID int) (*Workspace, error) {
	return doRequest[Workspace](ctx, c, http.MethodPost, "/workspace/language",
		map[string]int{"language_id": languageID}, http.StatusOK)
}

// Run executes the workspace source. A run already in progress yields an
// *APIError with status 409.
func (c *Client) Run(ctx context.Context) (*RunResult, error) {
	return doRequest[RunResult](ctx, c, http.MethodPost, "/workspace/run", nil, http.StatusOK)
}

// Snippets lists saved snippets.
func (c *Client) Snippets(ctx context.Context) (*SnippetList, error) {
	return doRequest[SnippetList](ctx, c, http.MethodGet, "/snippets", nil, http.StatusOK)
}

// Save stores the current source under name.
func (c *Client) Save(ctx context.Context, name string) (*SaveResponse, error) {
	return doRequest[SaveResponse](ctx, c, http.MethodPost, "/snippets",
		map[string]string{"name": name}, http.StatusCreated, http.StatusOK)
}

// Load replaces the editor contents with the snippet at index.
func (c *Client) Load(ctx context.Context, index int) (*Workspace, error) {
	return doRequest[Workspace](ctx, c, http.MethodPost, fmt.Sprintf("/snippets/%d/load", index), nil, http.StatusOK)
}

// Clear erases every saved snippet.
func (c *Client) Clear(ctx context.Context) error {
	_, err := doRequest[statusResponse](ctx, c, http.MethodDelete, "/snippets", nil, http.StatusOK)
	return err
}

// --- internal helpers ---

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("codepad: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any, expectedStatuses ...int) (*T, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	for _, s := range expectedStatuses {
		if resp.StatusCode == s {
			var out T
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return nil, fmt.Errorf("codepad: decode response: %w", err)
			}
			return &out, nil
		}
	}
	return nil, parseError(resp)
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		e.Message = body.Error
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
