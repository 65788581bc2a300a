// Package bugzilla talks to the Bugzilla REST API: the release-health
// count queries relman tracks across a release cycle, and the first-time
// contributor report generated for each Desktop release.
package bugzilla

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

// Query is one saved count search: a display name and a REST URL carrying
// count_only=1.
type Query struct {
	Name string
	URL  string
}

// Count is the result of one query.
type Count struct {
	Name  string
	Count int
}

// DefaultBaseURL is the production Bugzilla REST endpoint.
const DefaultBaseURL = "https://bugzilla.mozilla.org/rest"

// Client runs Bugzilla queries. APIKey is sent as the api_key query
// parameter when set.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client

	// MaxInFlight caps concurrent requests. Zero means no cap.
	MaxInFlight int
}

// New returns a Client with the given API key.
func New(apiKey string) *Client {
	return &Client{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		HTTPClient:  &http.Client{Timeout: 60 * time.Second},
		MaxInFlight: 4,
	}
}

// Counts runs every query concurrently and returns the counts in the same
// order as the queries. The first failed query cancels the rest.
func (c *Client) Counts(ctx context.Context, queries []Query) ([]Count, error) {
	results := make([]Count, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	if c.MaxInFlight > 0 {
		g.SetLimit(c.MaxInFlight)
	}
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			n, err := c.count(ctx, q.URL)
			if err != nil {
				return fmt.Errorf("query %q: %w", q.Name, err)
			}
			results[i] = Count{Name: q.Name, Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) count(ctx context.Context, rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, err
	}
	if c.APIKey != "" {
		q := u.Query()
		q.Set("api_key", c.APIKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("bugzilla returned %s: %s", resp.Status, body)
	}

	var payload struct {
		BugCount int `json:"bug_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	return payload.BugCount, nil
}

// get runs a REST query against BaseURL and decodes the JSON response
// into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bugzilla returned %s: %s", resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
