package mobile

import (
	"fmt"

	"howett.net/plist"

	"github.com/raveheart1/relkit/internal/version"
)

// bundleVersionKey is the Info.plist key carrying the marketing version.
const bundleVersionKey = "CFBundleShortVersionString"

// RewritePlist sets CFBundleShortVersionString to v in an Info.plist
// document, keeping the document's serialization format. Returns the
// rewritten document and whether the value actually changed.
func RewritePlist(doc []byte, v version.Version) ([]byte, bool, error) {
	var root map[string]interface{}
	format, err := plist.Unmarshal(doc, &root)
	if err != nil {
		return nil, false, fmt.Errorf("parsing plist: %w", err)
	}
	if current, ok := root[bundleVersionKey].(string); ok && current == v.String() {
		return doc, false, nil
	}
	root[bundleVersionKey] = v.String()

	out, err := plist.MarshalIndent(root, format, "\t")
	if err != nil {
		return nil, false, fmt.Errorf("encoding plist: %w", err)
	}
	return out, true, nil
}
