// internal/adapters/microcms/client.go
package microcms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"onsen_map/internal/adapters/observability"
	"onsen_map/internal/domain"
)

const (
	// DefaultServiceID is the microCMS service the site publishes to.
	DefaultServiceID = "00y7aqc3z0"

	// MaxLimit is the largest page size microCMS accepts on list endpoints.
	MaxLimit = 100

	apiKeyHeader = "X-MICROCMS-API-KEY"
	ryokanPath   = "/ryokan"
)

// Client is a read-only microCMS client. It holds no mutable state and can be
// shared between goroutines. A client built with an API key must stay on the
// server side.
type Client struct {
	base string
	hc   *http.Client
	key  string
}

type Option func(*Client)

// WithBaseURL replaces https://{serviceID}.microcms.io/api/v1.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc = &http.Client{Timeout: d}
		}
	}
}

// New builds a client for serviceID. An empty key sends requests without the
// API key header, which only works for endpoints marked public.
func New(serviceID, key string, opts ...Option) *Client {
	c := &Client{
		base: fmt.Sprintf("https://%s.microcms.io/api/v1", serviceID),
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func NewPublic(serviceID string, opts ...Option) *Client {
	return New(serviceID, "", opts...)
}

// ---- Public API ----

func (c *Client) ListRyokans(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Ryokan], error) {
	var out domain.Page[domain.Ryokan]
	return out, c.get(ctx, ryokanPath, ryokanPath, listParams(q), &out)
}

func (c *Client) GetRyokan(ctx context.Context, id string, q domain.GetQuery) (domain.Ryokan, error) {
	v := url.Values{}
	setFields(v, q.Fields)
	setStr(v, "draftKey", q.DraftKey)

	var out domain.Ryokan
	return out, c.get(ctx, ryokanPath+"/"+url.PathEscape(id), ryokanPath+"/{id}", v, &out)
}

// GetRyokanBySlug looks the slug up with a filtered list of size 1.
// No match is not an error: it returns nil, nil. Slugs that would alter the
// filter expression match nothing and are never sent.
func (c *Client) GetRyokanBySlug(ctx context.Context, slug, draftKey string) (*domain.Ryokan, error) {
	if slug == "" || !domain.ValidFilterValue(slug) {
		return nil, nil
	}
	page, err := c.ListRyokans(ctx, domain.ListQuery{
		Limit:    1,
		Filters:  domain.FilterEquals("slug", slug),
		DraftKey: draftKey,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Contents) == 0 {
		return nil, nil
	}
	r := page.Contents[0]
	return &r, nil
}

// ---- Errors ----

// ServiceError is returned for any non-2xx answer from microCMS.
type ServiceError struct {
	StatusCode int
	Status     string // status text, e.g. "Not Found"
	Body       string // first 4KiB of the response body
}

func (e *ServiceError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("microcms: %d %s: %s", e.StatusCode, e.Status, e.Body)
	}
	return fmt.Sprintf("microcms: %d %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is a 404 from microCMS.
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// ---- Internals ----

func listParams(q domain.ListQuery) url.Values {
	v := url.Values{}
	setInt(v, "limit", q.Limit)
	setInt(v, "offset", q.Offset)
	setStr(v, "orders", q.Orders)
	setStr(v, "q", q.Q)
	setFields(v, q.Fields)
	setStr(v, "filters", q.Filters)
	setStr(v, "draftKey", q.DraftKey)
	return v
}

func setStr(v url.Values, k, s string) {
	if s != "" {
		v.Set(k, s)
	}
}

func setInt(v url.Values, k string, n int) {
	if n > 0 {
		v.Set(k, strconv.Itoa(n))
	}
}

func setFields(v url.Values, fields []string) {
	if len(fields) > 0 {
		v.Set("fields", strings.Join(fields, ","))
	}
}

// get performs a single GET and decodes the JSON body into out.
// route is the endpoint pattern used as the metrics label.
func (c *Client) get(ctx context.Context, path, route string, params url.Values, out any) error {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set(apiKeyHeader, c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "onsen-map/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("microcms", route, 0, time.Since(start))
		return fmt.Errorf("microcms: GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("microcms", route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       strings.TrimSpace(string(b)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("microcms: decode %s: %w", path, err)
	}
	return nil
}

func statusText(resp *http.Response) string {
	if s := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); s != "" && s != resp.Status {
		return s
	}
	return http.StatusText(resp.StatusCode)
}
