package report

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"offliner/pkg/storage"
)

// PageMeta is the per-document description recorded on the report for
// each captured HTML page.
type PageMeta struct {
	Path               string  `json:"path"`
	Title              string  `json:"title,omitempty"`
	Excerpt            string  `json:"excerpt,omitempty"`
	Language           string  `json:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty"`
}

var detectorLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Russian,
	lingua.Japanese,
	lingua.Chinese,
}

// DescribePages extracts title, excerpt, and language for each captured
// HTML file. Extraction problems are logged and the page is still listed
// with whatever fields could be filled.
func DescribePages(s *storage.Storage, htmlRels []string, logger *slog.Logger) []PageMeta {
	if len(htmlRels) == 0 {
		return nil
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(detectorLanguages...).
		Build()

	pages := make([]PageMeta, 0, len(htmlRels))
	for _, rel := range htmlRels {
		meta := PageMeta{Path: rel}
		content, err := s.ReadFile(rel)
		if err != nil {
			logger.Warn("failed to read page for metadata", "path", rel, "error", err)
			pages = append(pages, meta)
			continue
		}

		base, _ := url.Parse("http://localhost/" + rel)
		parser := readability.NewParser()
		article, err := parser.Parse(bytes.NewReader(content), base)
		if err != nil {
			logger.Warn("readability extraction failed", "path", rel, "error", err)
			pages = append(pages, meta)
			continue
		}
		meta.Title = article.Title
		meta.Excerpt = article.Excerpt

		text := strings.TrimSpace(article.TextContent)
		if text != "" {
			if lang, ok := detector.DetectLanguageOf(text); ok {
				meta.Language = lang.String()
				meta.LanguageConfidence = detector.ComputeLanguageConfidence(text, lang)
			}
		}
		pages = append(pages, meta)
	}
	return pages
}
