package code

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultURL is a self-hosted Judge0 CE server.
	DefaultURL = "http://judge0-server:2358"
	// RapidAPIURL is the hosted Judge0 CE endpoint on RapidAPI.
	RapidAPIURL = "https://judge0-ce.p.rapidapi.com"

	defaultTimeout = 30 * time.Second
)

// Judge0Config holds the connection settings for a Judge0 CE instance.
// URL is the base URL of the Judge0 server (e.g. "http://judge0-server:2358").
// AuthToken is optional; send it as X-Auth-Token when AUTHN_TOKEN is configured.
// RapidAPIKey switches to the RapidAPI headers; RapidAPIHost defaults to the URL host.
type Judge0Config struct {
	URL          string        `json:"url"`
	AuthToken    string        `json:"auth_token,omitempty"`
	RapidAPIKey  string        `json:"rapidapi_key,omitempty"`
	RapidAPIHost string        `json:"rapidapi_host,omitempty"`
	Base64       bool          `json:"base64,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
}

// Judge0Provider calls the Judge0 CE REST API to execute source code.
type Judge0Provider struct {
	url          string
	authToken    string
	rapidAPIKey  string
	rapidAPIHost string
	base64       bool
	client       *http.Client
}

// NewJudge0Provider constructs a Judge0Provider from the given config.
func NewJudge0Provider(cfg Judge0Config) *Judge0Provider {
	base := strings.TrimRight(cfg.URL, "/")
	if base == "" {
		base = DefaultURL
		if cfg.RapidAPIKey != "" {
			base = RapidAPIURL
		}
	}
	host := cfg.RapidAPIHost
	if host == "" && cfg.RapidAPIKey != "" {
		if u, err := url.Parse(base); err == nil {
			host = u.Host
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Judge0Provider{
		url:          base,
		authToken:    cfg.AuthToken,
		rapidAPIKey:  cfg.RapidAPIKey,
		rapidAPIHost: host,
		base64:       cfg.Base64,
		client:       &http.Client{Timeout: timeout},
	}
}

// Execute submits source code to Judge0 and waits synchronously for the result.
// With Base64 enabled, source and stdin are encoded on the way out and the
// output channels are decoded on the way back.
func (p *Judge0Provider) Execute(ctx context.Context, in Request) (*Submission, error) {
	body := in
	if p.base64 {
		body.SourceCode = base64.StdEncoding.EncodeToString([]byte(in.SourceCode))
		body.Stdin = base64.StdEncoding.EncodeToString([]byte(in.Stdin))
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrTransport, err)
	}

	endpoint := p.url + "/submissions?base64_encoded=" + strconv.FormatBool(p.base64) + "&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.authToken != "" {
		req.Header.Set("X-Auth-Token", p.authToken)
	}
	if p.rapidAPIKey != "" {
		req.Header.Set("x-rapidapi-key", p.rapidAPIKey)
		req.Header.Set("x-rapidapi-host", p.rapidAPIHost)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: submit to judge0: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: judge0 returned HTTP %d", ErrTransport, resp.StatusCode)
	}

	var raw struct {
		Token         string  `json:"token"`
		Stdout        *string `json:"stdout"`
		Stderr        *string `json:"stderr"`
		CompileOutput *string `json:"compile_output"`
		Time          *string `json:"time"`
		Memory        *int    `json:"memory"`
		Status        struct {
			Description string `json:"description"`
		} `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode judge0 response: %v", ErrTransport, err)
	}

	sub := &Submission{
		Token:         raw.Token,
		Status:        raw.Status.Description,
		Stdout:        p.decode(raw.Stdout),
		Stderr:        p.decode(raw.Stderr),
		CompileOutput: p.decode(raw.CompileOutput),
	}
	if raw.Time != nil {
		sub.Time = *raw.Time
	}
	if raw.Memory != nil {
		sub.Memory = *raw.Memory
	}
	return sub, nil
}

// decode returns the channel text, base64-decoded when enabled. Text that is
// not valid base64 is kept verbatim.
func (p *Judge0Provider) decode(s *string) *string {
	if s == nil {
		return nil
	}
	out := *s
	if p.base64 {
		// Judge0 wraps long base64 values at 60 columns.
		if dec, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out, "\n", "")); err == nil {
			out = string(dec)
		}
	}
	return &out
}
