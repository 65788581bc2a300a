package release

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relkit/internal/version"
)

const testChangelog = `# v143.0 (In progress)

[Full Changelog](In progress)

## General
- New thing.

# v142.0 (_2025-06-01_)

[Full Changelog](https://github.com/mozilla/application-services/compare/v141.0...v142.0)
`

func TestCutRelease(t *testing.T) {
	repo := newFakeRepo()
	fs := newFakeFS()
	fs.files["version.txt"] = "143.0a1\n"
	fs.files["CHANGELOG.md"] = testChangelog

	o := newTestOrchestrator(repo, fs)
	result, err := o.CutRelease(context.Background(), 143, "2025-08-26")
	require.NoError(t, err)

	assert.Equal(t, "release-v143", result.Branch)
	assert.Equal(t, "143.0", result.Version)
	assert.Equal(t, "https://github.com/mozilla/application-services/compare/v142.0...v143.0", result.CompareURL)
	assert.True(t, result.Committed)
	assert.Equal(t, "https://github.com/mozilla/application-services/compare/release-v143...someone:release-v143?expand=1", result.PRURL)

	// Files rewritten in place.
	assert.Equal(t, "143.0\n", fs.files["version.txt"])
	assert.Contains(t, fs.files["CHANGELOG.md"], "# v143.0 (_2025-08-26_)")
	assert.Contains(t, fs.files["CHANGELOG.md"], result.CompareURL)

	// Branch came from upstream, push went to origin.
	assert.Contains(t, repo.checkouts, "release-v143@upstream/release-v143")
	assert.Contains(t, repo.pushes, "origin HEAD:refs/heads/release-v143")
	assert.Equal(t, []string{"Cut release v143.0"}, repo.commits)
}

func TestCutReleaseAlreadyStripped(t *testing.T) {
	repo := newFakeRepo()
	fs := newFakeFS()
	fs.files["version.txt"] = "143.0\n"
	fs.files["CHANGELOG.md"] = testChangelog

	o := newTestOrchestrator(repo, fs)
	result, err := o.CutRelease(context.Background(), 143, "2025-08-26")
	require.NoError(t, err)

	assert.Equal(t, "143.0", result.Version)
	// The version file was not rewritten when already stripped.
	assert.NotContains(t, fs.writes, "version.txt")
}

func TestCutReleaseMissingChangelogHeader(t *testing.T) {
	repo := newFakeRepo()
	fs := newFakeFS()
	fs.files["version.txt"] = "143.0a1\n"
	fs.files["CHANGELOG.md"] = "# v142.0 (_2025-06-01_)\n\nbody\n"

	o := newTestOrchestrator(repo, fs)
	result, err := o.CutRelease(context.Background(), 143, "2025-08-26")
	require.NoError(t, err)

	// Missing header is a warning, not an abort; the URL is still reported
	// and the changelog left untouched.
	assert.Equal(t, "https://github.com/mozilla/application-services/compare/v142.0...v143.0", result.CompareURL)
	assert.NotContains(t, fs.writes, "CHANGELOG.md")
}

func TestCutReleaseMalformedVersion(t *testing.T) {
	repo := newFakeRepo()
	fs := newFakeFS()
	fs.files["version.txt"] = "not-a-version\n"
	fs.files["CHANGELOG.md"] = testChangelog

	o := newTestOrchestrator(repo, fs)
	_, err := o.CutRelease(context.Background(), 143, "2025-08-26")

	var fe *version.FormatError
	require.Error(t, err)
	assert.True(t, errors.As(err, &fe))
	// The workflow aborted before touching any file.
	assert.Empty(t, fs.writes)
	assert.Empty(t, repo.commits)
}

func TestStartNextCycle(t *testing.T) {
	repo := newFakeRepo()
	fs := newFakeFS()
	fs.files["version.txt"] = "143.0\n"
	fs.files["CHANGELOG.md"] = testChangelog

	o := newTestOrchestrator(repo, fs)
	result, err := o.StartNextCycle(context.Background(), 143, "2025-08-26")
	require.NoError(t, err)

	assert.Equal(t, "start-release-v144", result.Branch)
	assert.Equal(t, "144.0a1", result.Version)
	assert.Equal(t, "https://github.com/mozilla/application-services/compare/main...someone:start-release-v144?expand=1", result.PRURL)

	assert.Equal(t, "144.0a1\n", fs.files["version.txt"])

	doc := fs.files["CHANGELOG.md"]
	assert.True(t, strings.HasPrefix(doc, "# v144.0 (In progress)"))
	assert.Contains(t, doc, "# v143.0 (_2025-08-26_)")
	assert.Contains(t, doc, "compare/v142.0...v143.0")

	assert.Contains(t, repo.checkouts, "start-release-v144@upstream/main")
	assert.Contains(t, repo.pushes, "origin HEAD:refs/heads/start-release-v144")
	assert.Equal(t, []string{"Start release v144.0"}, repo.commits)
}

func TestStartNextCycleNoHeaderStillPrepends(t *testing.T) {
	repo := newFakeRepo()
	fs := newFakeFS()
	fs.files["version.txt"] = "143.0\n"
	fs.files["CHANGELOG.md"] = "# v142.0 (_2025-06-01_)\n\nbody\n"

	o := newTestOrchestrator(repo, fs)
	_, err := o.StartNextCycle(context.Background(), 143, "2025-08-26")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fs.files["CHANGELOG.md"], "# v144.0 (In progress)"))
}

func TestDetectReleaseVersion(t *testing.T) {
	repo := newFakeRepo()
	repo.releaseVersions = []int{141, 142, 143}

	o := newTestOrchestrator(repo, newFakeFS())
	got, err := o.DetectReleaseVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 143, got)
}

func TestDetectReleaseVersionNoBranches(t *testing.T) {
	o := newTestOrchestrator(newFakeRepo(), newFakeFS())
	_, err := o.DetectReleaseVersion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release-v*")
}
