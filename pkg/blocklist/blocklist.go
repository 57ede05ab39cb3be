// Package blocklist decides which URLs are tracking/analytics noise that
// should never be fetched or kept in a capture.
package blocklist

import "strings"

// DefaultPatterns is the maintained analytics/tracking blocklist. A URL
// containing any of these substrings is excluded from the capture.
var DefaultPatterns = []string{
	"googletagmanager.com",
	"google-analytics.com",
	"connect.facebook.net",
	"firebaseinstallations.googleapis.com",
	"firebase.googleapis.com",
	"storage.googleapis.com",
	"analytics.",
}

// Matcher matches URLs against a substring pattern list.
type Matcher struct {
	patterns []string
}

// NewMatcher builds a matcher from the given patterns; nil or empty falls
// back to DefaultPatterns.
func NewMatcher(patterns []string) *Matcher {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Matcher{patterns: patterns}
}

// Blocked reports whether url matches any configured pattern. Unmatched
// URLs are kept.
func (m *Matcher) Blocked(url string) bool {
	if url == "" {
		return false
	}
	for _, p := range m.patterns {
		if strings.Contains(url, p) {
			return true
		}
	}
	return false
}

// Patterns returns the active pattern list.
func (m *Matcher) Patterns() []string {
	return m.patterns
}
