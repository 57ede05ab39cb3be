// Package har extracts resource URLs from browser HAR captures and merges
// them into a capture manifest. Only request/response URL pairs are read;
// the rest of the HAR structure is ignored.
package har

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"offliner/pkg/manifest"
)

// Resource is one URL observed in a HAR capture.
type Resource struct {
	URL    string
	Status int
	Type   string
}

// Extract reads a HAR file and returns its http(s) resources in capture
// order. An empty response MIME type is guessed from the URL extension,
// falling back to application/octet-stream.
func Extract(harPath string) ([]Resource, error) {
	data, err := os.ReadFile(harPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read HAR file %s: %w", harPath, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("HAR file %s is not valid JSON", harPath)
	}

	entries := gjson.GetBytes(data, "log.entries")
	if !entries.Exists() {
		return nil, fmt.Errorf("HAR file %s has no log.entries", harPath)
	}

	var resources []Resource
	entries.ForEach(func(_, entry gjson.Result) bool {
		rawURL := entry.Get("request.url").String()
		if !strings.HasPrefix(rawURL, "http") {
			return true
		}
		mimeType := entry.Get("response.content.mimeType").String()
		if mimeType == "" {
			mimeType = guessType(rawURL)
		}
		resources = append(resources, Resource{
			URL:    rawURL,
			Status: int(entry.Get("response.status").Int()),
			Type:   mimeType,
		})
		return true
	})
	return resources, nil
}

func guessType(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		if t := mime.TypeByExtension(path.Ext(u.Path)); t != "" {
			return t
		}
	}
	return "application/octet-stream"
}

// Merge adds the HAR's resources to the manifest document, additively:
// URLs already present keep their entries untouched, nothing is removed
// or reordered, and the untouched portion of the document is preserved
// byte-for-byte. Returns the merged document and the number of entries
// added.
func Merge(manifestData []byte, resources []Resource) ([]byte, int, error) {
	if !gjson.ValidBytes(manifestData) {
		return nil, 0, fmt.Errorf("%w: manifest is not valid JSON", manifest.ErrInvalid)
	}
	doc := gjson.ParseBytes(manifestData)
	if !doc.IsArray() {
		return nil, 0, fmt.Errorf("%w: manifest is not a JSON list", manifest.ErrInvalid)
	}

	existing := make(map[string]bool)
	doc.ForEach(func(_, item gjson.Result) bool {
		if u := item.Get("url").String(); u != "" {
			existing[u] = true
		}
		return true
	})

	out := manifestData
	added := 0
	for _, r := range resources {
		if existing[r.URL] {
			continue
		}
		existing[r.URL] = true
		var err error
		out, err = sjson.SetBytes(out, "-1", manifest.Entry{URL: r.URL, Type: r.Type})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to append %s to manifest: %w", r.URL, err)
		}
		added++
	}
	return out, added, nil
}
