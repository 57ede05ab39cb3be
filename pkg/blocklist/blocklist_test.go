package blocklist

import "testing"

func TestBlocked_DefaultPatterns(t *testing.T) {
	m := NewMatcher(nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.googletagmanager.com/gtm.js?id=GTM-XYZ", true},
		{"https://www.google-analytics.com/analytics.js", true},
		{"https://connect.facebook.net/en_US/fbevents.js", true},
		{"https://firebaseinstallations.googleapis.com/v1/projects", true},
		{"https://analytics.example.com/beacon.gif", true},
		{"https://example.com/styles/main.css", false},
		{"https://cdn.example.org/app.js", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := m.Blocked(tt.url); got != tt.want {
			t.Errorf("Blocked(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestBlocked_CustomPatterns(t *testing.T) {
	m := NewMatcher([]string{"ads.internal"})

	if !m.Blocked("https://ads.internal.example.com/pixel") {
		t.Error("custom pattern did not match")
	}
	// Default patterns must not apply when a custom list is given.
	if m.Blocked("https://www.google-analytics.com/analytics.js") {
		t.Error("default pattern applied despite custom list")
	}
}

func TestNewMatcher_EmptyFallsBackToDefaults(t *testing.T) {
	m := NewMatcher([]string{})
	if len(m.Patterns()) != len(DefaultPatterns) {
		t.Errorf("len(Patterns()) = %d, want %d", len(m.Patterns()), len(DefaultPatterns))
	}
}
