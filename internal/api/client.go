package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultBasePath is the path prefix of the backend's JSON endpoints
const DefaultBasePath = "/ajax/"

// DefaultCSRFCookie is the cookie the backend issues its CSRF token in
const DefaultCSRFCookie = "csrftoken"

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client wraps JSON requests to a GeoKey backend. Every request is
// prefixed with the base path and carries the CSRF token read from the
// client's cookie set.
type Client struct {
	baseURL    *url.URL
	basePath   string
	csrfCookie string
	cookies    map[string]string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithCSRFCookie overrides the name of the cookie the CSRF token is read from
func WithCSRFCookie(name string) Option {
	return func(c *Client) { c.csrfCookie = name }
}

// WithBasePath overrides the endpoint path prefix
func WithBasePath(path string) Option {
	return func(c *Client) { c.basePath = path }
}

// WithTimeout overrides the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: scheme and host required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		basePath:   DefaultBasePath,
		csrfCookie: DefaultCSRFCookie,
		cookies:    make(map[string]string),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetCookie installs a cookie sent with every request, typically the
// session cookie and the CSRF cookie obtained at login
func (c *Client) SetCookie(name, value string) {
	c.cookies[name] = value
}

// csrfToken returns the token value from the named cookie. A missing
// cookie yields the empty string; the request still goes out and the
// backend rejects it.
func (c *Client) csrfToken() string {
	return c.cookies[c.csrfCookie]
}

// endpoint resolves a relative path against the base URL and path prefix.
// A trailing slash is appended to paths without a query string: the
// backend normalizes URLs with a redirect that drops POST and PUT bodies.
func (c *Client) endpoint(path string) string {
	if !strings.Contains(path, "?") && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	u := *c.baseURL
	rest := c.basePath + strings.TrimPrefix(path, "/")
	if i := strings.Index(rest, "?"); i >= 0 {
		u.RawQuery = rest[i+1:]
		rest = rest[:i]
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + rest
	return u.String()
}

func (c *Client) attachCookies(req *http.Request) {
	names := make([]string, 0, len(c.cookies))
	for name := range c.cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.AddCookie(&http.Cookie{Name: name, Value: c.cookies[name]})
	}
}

// do sends one JSON request and decodes the response into out when given
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-CSRFToken", c.csrfToken())
	c.attachCookies(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decode(resp, out)
}

// decode maps the response onto out, or onto an *APIError for non-2xx
// statuses. The backend reports errors as {"error": "..."}.
func (c *Client) decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if data, err := io.ReadAll(resp.Body); err == nil {
			if err := json.Unmarshal(data, &payload); err == nil {
				apiErr.Message = payload.Error
			}
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Upload issues a multipart POST, used for symbol image uploads. No
// explicit content type is set beyond the writer's multipart boundary
// type, and the form fields are sent verbatim rather than JSON-encoded.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteField(name, fields[name]); err != nil {
			return fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			return fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to copy file data: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-CSRFToken", c.csrfToken())
	c.attachCookies(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decode(resp, out)
}
