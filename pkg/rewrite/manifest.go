package rewrite

import (
	"errors"
	"path/filepath"
	"strings"

	"offliner/pkg/blocklist"
	"offliner/pkg/manifest"
)

// ErrNotText marks content that cannot be safely rewritten as text; the
// stored bytes are kept unmodified.
var ErrNotText = errors.New("content is not valid UTF-8 text")

// Manifest produces the offline manifest: captured entries point at their
// local hrefs, tracker entries are dropped, and entries that failed to
// download keep their remote URL untouched.
func Manifest(entries []manifest.Entry, m Map, trackers *blocklist.Matcher) []manifest.Entry {
	out := make([]manifest.Entry, 0, len(entries))
	for _, e := range entries {
		if trackers.Blocked(e.URL) {
			continue
		}
		if href, ok := m[e.URL]; ok {
			e.Path = href
		}
		out = append(out, e)
	}
	return out
}

// ManifestPath is where the rewritten manifest for the given source
// manifest lives, relative to the out-root.
func ManifestPath(sourceManifest string) string {
	base := filepath.Base(sourceManifest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".json"
	}
	return "rewritten-manifests/" + stem + "_local" + ext
}
