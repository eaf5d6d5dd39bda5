package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by a Client
const DefaultTimeout = 15 * time.Second

const (
	restPath = "/rest/v1/"
	authPath = "/auth/v1/"

	mediaSingleObject = "application/vnd.pgrst.object+json"
)

// TokenSource returns the bearer token for the next request.
// An empty token falls back to the anon key.
type TokenSource func() string

// Client talks to a PostgREST data API and a GoTrue auth API behind one base URL
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	token   TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets where the bearer token is read from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// NewClient creates a client for the project at baseURL using the public anon key
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url must be absolute: %q", baseURL)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("backend api key is empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised project url
func (c *Client) BaseURL() string { return c.baseURL }

// APIKey returns the anon key sent with every request
func (c *Client) APIKey() string { return c.apiKey }

func (c *Client) bearer() string {
	if c.token != nil {
		if t := c.token(); t != "" {
			return t
		}
	}
	return c.apiKey
}

// From starts a query on table
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

// Insert posts one row into table. When dest is non-nil the inserted row is
// decoded into it.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode %s row: %w", table, err)
	}

	header := http.Header{}
	if dest != nil {
		header.Set("Prefer", "return=representation")
		header.Set("Accept", mediaSingleObject)
	} else {
		header.Set("Prefer", "return=minimal")
	}

	return c.do(ctx, http.MethodPost, c.baseURL+restPath+table, header, body, dest)
}

// Auth sends a request to the auth API. path is relative to /auth/v1/.
func (c *Client) Auth(ctx context.Context, method, path string, bearer string, in any, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode auth request: %w", err)
		}
	}

	header := http.Header{}
	if bearer != "" {
		header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(ctx, method, c.baseURL+authPath+strings.TrimLeft(path, "/"), header, body, out)
}

func (c *Client) do(ctx context.Context, method, target string, header http.Header, body []byte, dest any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("apikey", c.apiKey)
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer())
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := RequestIDFrom(ctx)
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	log.Printf("Backend: %s %s -> %d in %s %s", method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is sent as X-Request-Id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id attached to ctx, if any
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
