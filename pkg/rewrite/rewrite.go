// Package rewrite replaces remote URLs inside captured text assets with
// their local hrefs so the capture works when served from the out-root.
package rewrite

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Map records the local href for every successfully captured URL. It is
// assembled by the fetch collector and read-only afterwards.
type Map map[string]string

// Set records the local href for a URL.
func (m Map) Set(url, href string) {
	m[url] = href
}

// orderedURLs returns the mapped URLs longest first so a URL that is a
// prefix of another cannot corrupt the longer match, with a lexical
// tiebreak for determinism.
func (m Map) orderedURLs() []string {
	urls := make([]string, 0, len(m))
	for u := range m {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool {
		if len(urls[i]) != len(urls[j]) {
			return len(urls[i]) > len(urls[j])
		}
		return urls[i] < urls[j]
	})
	return urls
}

// Apply rewrites every occurrence of a mapped URL in content to its local
// href and reports whether anything changed. URLs absent from the map are
// left pointing at the live network. Content that is not valid UTF-8 text
// is returned unmodified.
func (m Map) Apply(content []byte) ([]byte, bool, error) {
	if len(m) == 0 || len(content) == 0 {
		return content, false, nil
	}
	if !utf8.Valid(content) {
		return content, false, ErrNotText
	}

	text := string(content)
	changed := false
	for _, u := range m.orderedURLs() {
		if !strings.Contains(text, u) {
			continue
		}
		text = strings.ReplaceAll(text, u, m[u])
		changed = true
	}
	if !changed {
		return content, false, nil
	}
	return []byte(text), true, nil
}
