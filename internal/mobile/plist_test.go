package mobile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

const sampleInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleDisplayName</key>
	<string>Firefox</string>
	<key>CFBundleShortVersionString</key>
	<string>142.0</string>
	<key>CFBundleVersion</key>
	<string>1</string>
</dict>
</plist>
`

func TestRewritePlist(t *testing.T) {
	out, changed, err := RewritePlist([]byte(sampleInfoPlist), mustParse(t, "143.0"))
	require.NoError(t, err)
	assert.True(t, changed)

	var root map[string]interface{}
	_, err = plist.Unmarshal(out, &root)
	require.NoError(t, err)
	assert.Equal(t, "143.0", root["CFBundleShortVersionString"])
	// The other keys come through untouched.
	assert.Equal(t, "Firefox", root["CFBundleDisplayName"])
	assert.Equal(t, "1", root["CFBundleVersion"])
}

func TestRewritePlistAlreadyCurrent(t *testing.T) {
	out, changed, err := RewritePlist([]byte(sampleInfoPlist), mustParse(t, "142.0"))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, sampleInfoPlist, string(out))
}

func TestRewritePlistMalformed(t *testing.T) {
	_, _, err := RewritePlist([]byte("<plist><dict>"), mustParse(t, "143.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing plist")
}

func TestSetVersionRewritesPlists(t *testing.T) {
	repo := &fakeRepo{clean: true}
	fs := &fakeFS{files: map[string]string{
		"bitrise.yml":           sampleBitrise,
		"version.txt":           "142.0\n",
		"Client/Info.plist":     sampleInfoPlist,
		"Extensions/Info.plist": sampleInfoPlist,
	}}

	result, err := newBumper(repo, fs, "Client/Info.plist", "Extensions/Info.plist").
		SetVersion(context.Background(), "143.0")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Plists)
	for _, path := range []string{"Client/Info.plist", "Extensions/Info.plist"} {
		var root map[string]interface{}
		_, err := plist.Unmarshal([]byte(fs.files[path]), &root)
		require.NoError(t, err)
		assert.Equal(t, "143.0", root["CFBundleShortVersionString"], path)
	}
	assert.Equal(t, []string{"Bump - Set version to 143.0"}, repo.commits)
}

func TestSetVersionMissingPlist(t *testing.T) {
	repo := &fakeRepo{clean: true}
	fs := &fakeFS{files: map[string]string{
		"bitrise.yml": sampleBitrise,
		"version.txt": "142.0\n",
	}}

	_, err := newBumper(repo, fs, "Client/Info.plist").SetVersion(context.Background(), "143.0")
	require.Error(t, err)
	assert.Empty(t, repo.commits)
}
