// Package supabase reads users and cycle items through the Supabase REST
// APIs using a service role key.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// NewHTTPClient creates an HTTP client with bounded timeouts so a stalled
// upstream cannot hang a run indefinitely.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// Options configures a Client.
type Options struct {
	URL           string
	ServiceKey    string
	ItemsTable    string
	UsersPageSize int
	ItemsPageSize int
	Location      *time.Location
	HTTPClient    *http.Client
}

// Client talks to the Auth admin API and PostgREST of one project.
type Client struct {
	baseURL       *url.URL
	serviceKey    string
	itemsSchema   string
	itemsTable    string
	usersPageSize int
	itemsPageSize int
	loc           *time.Location
	http          *http.Client
}

// New creates a Client. It does not contact the project.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, ErrMissingURL
	}
	base, err := url.Parse(strings.TrimSuffix(opts.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse supabase url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse supabase url: %q is not absolute", opts.URL)
	}

	schema, table, err := splitTable(opts.ItemsTable)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:       base,
		serviceKey:    opts.ServiceKey,
		itemsSchema:   schema,
		itemsTable:    table,
		usersPageSize: opts.UsersPageSize,
		itemsPageSize: opts.ItemsPageSize,
		loc:           opts.Location,
		http:          opts.HTTPClient,
	}
	if c.itemsTable == "" {
		c.itemsTable = "cycle_items"
	}
	if c.usersPageSize <= 0 {
		c.usersPageSize = 200
	}
	if c.itemsPageSize <= 0 {
		c.itemsPageSize = 1000
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.http == nil {
		c.http = NewHTTPClient(DefaultTimeout)
	}
	return c, nil
}

// splitTable separates an optional schema from the table name. PostgREST
// addresses tables by name only and takes the schema from Accept-Profile.
func splitTable(name string) (schema, table string, err error) {
	name = strings.TrimSpace(name)
	parts := strings.Split(name, ".")
	switch {
	case name == "":
		return "", "", nil
	case len(parts) == 1:
		return "", parts[0], nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("invalid items table %q", name)
	}
}

// Ping checks that the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	var out []json.RawMessage
	q := url.Values{"select": {"id"}, "limit": {"1"}}
	return c.get(ctx, "/rest/v1/"+c.itemsTable, q, c.itemsSchema, &out)
}

// get issues an authenticated GET. profile selects the PostgREST schema and
// is left empty for the default schema and for Auth endpoints.
func (c *Client) get(ctx context.Context, path string, query url.Values, profile string, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cyclenotify/1.0")
	if profile != "" {
		req.Header.Set("Accept-Profile", profile)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
