// Package balrog queries the Balrog update service for nightly release
// blobs and reports platform/locale builds lagging behind a target buildID.
package balrog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"
)

// DefaultReleaseURL is the blob for the latest mozilla-central nightly.
const DefaultReleaseURL = "https://aus-api.mozilla.org/api/v1/releases/Firefox-mozilla-central-nightly-latest"

// StaleBuild is a platform/locale pair whose buildID is older than the
// target.
type StaleBuild struct {
	Platform string
	Locale   string
	BuildID  int64
}

// Client fetches release blobs from a Balrog instance.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// New returns a Client against the given release blob URL.
func New(url string) *Client {
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// releaseBlob is the subset of the Balrog release blob we read. Platforms
// without a locales map are aliases and carry no builds.
type releaseBlob struct {
	Platforms map[string]struct {
		Locales map[string]struct {
			BuildID string `json:"buildID"`
		} `json:"locales"`
	} `json:"platforms"`
}

// CheckNightly fetches the release blob and returns every platform/locale
// build older than target, sorted by platform then locale. An empty result
// means all builds are current.
func (c *Client) CheckNightly(ctx context.Context, target int64) ([]StaleBuild, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("balrog returned %s: %s", resp.Status, body)
	}

	var blob releaseBlob
	if err := json.NewDecoder(resp.Body).Decode(&blob); err != nil {
		return nil, fmt.Errorf("decoding release blob: %w", err)
	}

	var stale []StaleBuild
	for platform, p := range blob.Platforms {
		for locale, l := range p.Locales {
			id, err := strconv.ParseInt(l.BuildID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("platform %s locale %s: bad buildID %q", platform, locale, l.BuildID)
			}
			if id < target {
				stale = append(stale, StaleBuild{Platform: platform, Locale: locale, BuildID: id})
			}
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		if stale[i].Platform != stale[j].Platform {
			return stale[i].Platform < stale[j].Platform
		}
		return stale[i].Locale < stale[j].Locale
	})
	return stale, nil
}
