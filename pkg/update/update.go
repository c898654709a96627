// Package update checks GitHub releases for a newer relictum build.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/relictum/pkg/errors"
	pkghttp "github.com/glorpus-work/relictum/pkg/http"
)

// DefaultRepository is queried when none is configured.
const DefaultRepository = "glorpus-work/relictum"

// APIBase is the GitHub API root.
var APIBase = "https://api.github.com"

// Release describes the outcome of a check.
type Release struct {
	Current   string `json:"current_version"`
	Latest    string `json:"latest_version"`
	URL       string `json:"url"`
	Available bool   `json:"update_available"`
}

// Checker compares the running version with the latest release.
type Checker struct {
	Fetcher    pkghttp.Fetcher
	Repository string
	Current    string
}

type latestRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check fetches releases/latest. A tag that is not a version never reports
// an update.
func (c *Checker) Check(ctx context.Context) (Release, error) {
	repo := c.Repository
	if repo == "" {
		repo = DefaultRepository
	}
	release := Release{Current: c.Current}

	body, err := c.Fetcher.Get(ctx, fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(APIBase, "/"), repo))
	if err != nil {
		return release, errors.Wrap(err, "failed to fetch releases")
	}
	var latest latestRelease
	if err := json.Unmarshal(body, &latest); err != nil {
		return release, fmt.Errorf("failed to parse release: %w", err)
	}
	release.Latest = strings.TrimPrefix(strings.TrimSpace(latest.TagName), "v")
	release.URL = latest.HTMLURL
	release.Available = Newer(release.Latest, c.Current)
	return release, nil
}

// Newer reports whether candidate is a higher version than current.
func Newer(candidate, current string) bool {
	c, err := version.NewVersion(candidate)
	if err != nil {
		return false
	}
	cur, err := version.NewVersion(current)
	if err != nil {
		return true
	}
	return c.GreaterThan(cur)
}
