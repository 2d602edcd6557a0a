package pocketbase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

const (
	// DefaultPageSize is the page size used when listing. PocketBase caps perPage at 500.
	DefaultPageSize = 500

	// DefaultAuthPath authenticates admins on PocketBase before v0.23.
	DefaultAuthPath = "/api/admins/auth-with-password"

	// SuperuserAuthPath authenticates superusers on PocketBase v0.23 and later.
	SuperuserAuthPath = "/api/collections/_superusers/auth-with-password"
)

// ClientConfig holds configuration for the PocketBase client.
type ClientConfig struct {
	URL        string       // PocketBase base URL (required)
	HTTPClient *http.Client // HTTP client (default: http.DefaultClient)
	PageSize   int          // Items per list page (default: 500)
	AuthPath   string       // Admin auth endpoint (default: DefaultAuthPath)
	UserAgent  string       // User-Agent header (optional)
}

// Client talks to a single PocketBase instance. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	pageSize  int
	authPath  string
	userAgent string

	mu      sync.RWMutex
	session session
}

// NewClient creates a client for the PocketBase instance at cfg.URL.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("pocketbase: URL is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("pocketbase: URL must be absolute: " + cfg.URL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	authPath := cfg.AuthPath
	if authPath == "" {
		authPath = DefaultAuthPath
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		http:      httpClient,
		pageSize:  pageSize,
		authPath:  authPath,
		userAgent: cfg.UserAgent,
	}, nil
}

// BaseURL returns the PocketBase URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiError is the body PocketBase sends with every 4xx/5xx response.
type apiError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// do performs one request and decodes the JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, URL: endpoint, Message: "encoding request body", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Op: op, URL: endpoint, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	token := c.Token()
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, URL: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, URL: endpoint, Status: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.clearToken(token)
		}
		apiErr := apiError{Message: http.StatusText(resp.StatusCode)}
		_ = json.Unmarshal(data, &apiErr) // Non-JSON error bodies keep the status text
		return &Error{
			Op:      op,
			URL:     endpoint,
			Status:  resp.StatusCode,
			Message: apiErr.Message,
			Data:    apiErr.Data,
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, URL: endpoint, Status: resp.StatusCode, Message: "decoding response", Cause: err}
	}
	return nil
}

// listAll walks every page of a list endpoint.
func listAll[T any](ctx context.Context, c *Client, op, path string) ([]T, error) {
	items := make([]T, 0)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("perPage", strconv.Itoa(c.pageSize))
		query.Set("skipTotal", "1")

		var res listResult[T]
		if err := c.do(ctx, op, http.MethodGet, path, query, nil, &res); err != nil {
			return nil, err
		}
		items = append(items, res.Items...)

		perPage := res.PerPage
		if perPage <= 0 {
			perPage = c.pageSize
		}
		if len(res.Items) < perPage {
			return items, nil
		}
		if res.TotalPages > 0 && page >= res.TotalPages {
			return items, nil
		}
	}
}
