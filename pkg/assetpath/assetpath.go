// Package assetpath derives the local filesystem identity of a remote URL:
// a slash-separated path relative to the capture root and the root-relative
// href written into rewritten documents.
package assetpath

import (
	"crypto/sha1"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Asset is the local identity assigned to one remote URL.
type Asset struct {
	URL  string // original remote URL
	Rel  string // path relative to the out-root, forward slashes
	Href string // root-relative href used when rewriting ("/host/path")
}

// Derive computes the local path for a URL. The host becomes the first
// path element, the remote path is percent-decoded and cleaned, a
// trailing slash or empty path resolves to index.html, and a query
// string is folded into the filename as a short hash suffix so distinct
// query variants get distinct files. Pure function, no side effects.
func Derive(rawURL string) (Asset, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Asset{}, fmt.Errorf("unparseable URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Asset{}, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, rawURL)
	}
	if u.Host == "" {
		return Asset{}, fmt.Errorf("URL %q has no host", rawURL)
	}

	// u.Path is already percent-decoded.
	p := u.Path
	if p == "" {
		p = "/"
	}
	if strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	// Cleaning the absolute form collapses "." and ".." segments so the
	// result cannot escape the host directory.
	p = path.Clean("/" + strings.TrimPrefix(p, "/"))

	if u.RawQuery != "" {
		p = withSuffix(p, "__q_"+shortHash(u.RawQuery))
	}

	rel := u.Host + p
	return Asset{
		URL:  rawURL,
		Rel:  rel,
		Href: "/" + rel,
	}, nil
}

// withSuffix inserts suffix between the filename base and its extension;
// a missing extension defaults to .html.
func withSuffix(p, suffix string) string {
	ext := path.Ext(p)
	base := strings.TrimSuffix(p, ext)
	if ext == "" {
		ext = ".html"
	}
	return base + suffix + ext
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return fmt.Sprintf("%x", sum)[:8]
}

// Resolver assigns final local paths in manifest order and disambiguates
// collisions: when two distinct URLs derive the same path, the later one
// gets a hash suffix derived from its full URL. Assignments are stable
// across runs because they depend only on the URL sequence.
type Resolver struct {
	byRel map[string]string // rel -> owning URL
	byURL map[string]Asset
}

func NewResolver() *Resolver {
	return &Resolver{
		byRel: make(map[string]string),
		byURL: make(map[string]Asset),
	}
}

// Assign returns the asset for rawURL, computing and recording it on
// first sight. The same URL always resolves to the same asset.
func (r *Resolver) Assign(rawURL string) (Asset, error) {
	if a, ok := r.byURL[rawURL]; ok {
		return a, nil
	}

	a, err := Derive(rawURL)
	if err != nil {
		return Asset{}, err
	}

	return r.claim(a), nil
}

// AssignPath honors a manifest path hint instead of deriving the local
// path from the URL. The hint is cleaned and confined like a derived
// path and still participates in collision resolution.
func (r *Resolver) AssignPath(rawURL, hint string) (Asset, error) {
	if a, ok := r.byURL[rawURL]; ok {
		return a, nil
	}
	rel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(hint, "/")), "/")
	if rel == "" || rel == "." {
		return Asset{}, fmt.Errorf("path hint %q for %q resolves to nothing", hint, rawURL)
	}
	return r.claim(Asset{URL: rawURL, Rel: rel, Href: "/" + rel}), nil
}

func (r *Resolver) claim(a Asset) Asset {
	if owner, taken := r.byRel[a.Rel]; taken && owner != a.URL {
		rel := withSuffix(a.Rel, "__h_"+shortHash(a.URL))
		a.Rel = rel
		a.Href = "/" + rel
	}
	r.byRel[a.Rel] = a.URL
	r.byURL[a.URL] = a
	return a
}
