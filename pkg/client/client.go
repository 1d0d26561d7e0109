// Package imagery is the Go client for the imagery HTTP API.
package imagery

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
)

// Client calls the imagery API over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the API at baseURL, e.g. "https://api.example.com".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("imagery: base URL required")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   http.DefaultClient,
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c, nil
}

// Option configures the Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithHTTPClient sets the underlying HTTP client. Use it to control
// timeouts, transports, or to inject a test double.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	})
}

// Search runs an image search.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	if opts != nil {
		if opts.Page > 0 {
			q.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			q.Set("pagesize", strconv.Itoa(opts.PageSize))
		}
		if len(opts.Licenses) > 0 {
			q.Set("li", strings.Join(opts.Licenses, ","))
		}
		if opts.LicenseType != "" {
			q.Set("lt", opts.LicenseType)
		}
		if opts.FilterDead {
			q.Set("filter_dead", "true")
		}
	}

	var out SearchResult
	if err := c.getJSON(ctx, "/v1/images/search?"+q.Encode(), &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// Image returns the full record for one image.
func (c *Client) Image(ctx context.Context, identifier string) (ImageDetail, error) {
	var out ImageDetail
	if err := c.getJSON(ctx, "/v1/images/"+url.PathEscape(identifier), &out); err != nil {
		return ImageDetail{}, err
	}
	return out, nil
}

// Watermark returns the watermarked JPEG bytes for one image.
func (c *Client) Watermark(ctx context.Context, identifier string) ([]byte, error) {
	resp, err := c.get(ctx, "/v1/images/"+url.PathEscape(identifier)+"/watermark")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imagery: read watermark body: %w", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("imagery: build request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagery: %w", err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("imagery: decode response: %w", err)
	}
	return nil
}

// apiError reads an error response body into an APIError.
func apiError(resp *http.Response) error {
	e := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return e
	}

	var payload struct {
		Detail          string          `json:"detail"`
		ValidationError json.RawMessage `json:"validation_error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Detail = payload.Detail
		if len(payload.ValidationError) > 0 {
			var fields map[string]string
			var msg string
			switch {
			case json.Unmarshal(payload.ValidationError, &fields) == nil:
				e.ValidationFields = fields
			case json.Unmarshal(payload.ValidationError, &msg) == nil:
				e.Detail = msg
			default:
				e.Detail = string(payload.ValidationError)
			}
		}
	}
	return e
}
