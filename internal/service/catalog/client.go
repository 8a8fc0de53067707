package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Result is the OMDb response shape shared by title fetches, searches
// and id fetches. Response is the "True"/"False" discriminator; Error
// and Search are only present on the corresponding variants.
type Result struct {
	Response   string       `json:"Response"`
	Error      string       `json:"Error,omitempty"`
	Title      string       `json:"Title,omitempty"`
	Year       string       `json:"Year,omitempty"`
	Type       string       `json:"Type,omitempty"`
	IMDBRating string       `json:"imdbRating,omitempty"`
	IMDBID     string       `json:"imdbID,omitempty"`
	Search     []SearchItem `json:"Search,omitempty"`
}

// SearchItem is one candidate returned by a search query.
type SearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Type   string `json:"Type"`
}

// Failed reports whether the catalog marked this result as a miss.
func (r *Result) Failed() bool {
	return r == nil || r.Response == "False"
}

// Client issues OMDb lookups over HTTP. The client timeout bounds each
// round-trip; there are no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient builds a catalog client against baseURL with the given key.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// FetchByTitle asks for a short-form record matching the exact title,
// optionally narrowed by year.
func (c *Client) FetchByTitle(ctx context.Context, title, year string) (*Result, error) {
	params := url.Values{"t": {title}, "plot": {"short"}}
	if year != "" {
		params.Set("y", year)
	}
	return c.get(ctx, params)
}

// Search runs a broad title search, optionally narrowed by year.
func (c *Client) Search(ctx context.Context, title, year string) (*Result, error) {
	params := url.Values{"s": {title}}
	if year != "" {
		params.Set("y", year)
	}
	return c.get(ctx, params)
}

// FetchByID fetches the full record for a catalog identifier.
func (c *Client) FetchByID(ctx context.Context, id string) (*Result, error) {
	return c.get(ctx, url.Values{"i": {id}, "plot": {"short"}})
}

// get performs one round-trip. Non-2xx responses are still decoded:
// OMDb reports misses in the body, not the status line.
func (c *Client) get(ctx context.Context, params url.Values) (*Result, error) {
	params.Set("apikey", c.apiKey)
	params.Set("r", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode catalog response (status %d): %w", resp.StatusCode, err)
	}
	return &result, nil
}
