// Package models defines the shared data types of the capture pipeline.
package models

import (
	"path"
	"strings"
)

// Kind classifies a manifest entry by the broad content family of its
// resource. Text kinds (html, css, js) are eligible for URL rewriting.
type Kind int

const (
	KindOther Kind = iota
	KindHTML
	KindCSS
	KindJS
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindCSS:
		return "css"
	case KindJS:
		return "js"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// IsText reports whether resources of this kind are rewritten as text.
func (k Kind) IsText() bool {
	return k == KindHTML || k == KindCSS || k == KindJS
}

// KindOf derives the kind from a manifest entry's MIME type hint, falling
// back to the extension of the local path when no type is given.
func KindOf(mimeType, localPath string) Kind {
	if k, ok := kindFromMIME(mimeType); ok {
		return k
	}
	return kindFromExt(path.Ext(localPath))
}

func kindFromMIME(mimeType string) (Kind, bool) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "":
		return KindOther, false
	case strings.Contains(mt, "html"):
		return KindHTML, true
	case strings.Contains(mt, "css"):
		return KindCSS, true
	case strings.Contains(mt, "javascript"), strings.Contains(mt, "ecmascript"):
		return KindJS, true
	case strings.HasPrefix(mt, "image/"):
		return KindImage, true
	default:
		return KindOther, true
	}
}

func kindFromExt(ext string) Kind {
	switch strings.ToLower(ext) {
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".css":
		return KindCSS
	case ".js", ".mjs":
		return KindJS
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico", ".avif", ".bmp":
		return KindImage
	default:
		return KindOther
	}
}
