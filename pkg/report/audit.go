package report

import (
	"bytes"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"offliner/pkg/storage"
)

// Audit scans the given captured HTML files for href/src references and
// reports two kinds of offline gaps: root-relative references whose
// target file is missing under the root, and absolute http(s) URLs that
// survived rewriting and will still hit the live network.
func Audit(s *storage.Storage, htmlRels []string) (missing, leftover []string, err error) {
	missingSet := make(map[string]bool)
	leftoverSet := make(map[string]bool)

	for _, rel := range htmlRels {
		content, err := s.ReadFile(rel)
		if err != nil {
			return nil, nil, fmt.Errorf("audit: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
		if err != nil {
			return nil, nil, fmt.Errorf("audit: failed to parse %s: %w", rel, err)
		}

		doc.Find("[href], [src]").Each(func(_ int, sel *goquery.Selection) {
			for _, attr := range []string{"href", "src"} {
				ref, ok := sel.Attr(attr)
				if !ok || ref == "" {
					continue
				}
				switch {
				case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
					leftoverSet[ref] = true
				case strings.HasPrefix(ref, "/"):
					target := strings.TrimPrefix(ref, "/")
					if decoded, err := url.PathUnescape(target); err == nil {
						target = decoded
					}
					if target != "" && !s.HasFile(target) {
						missingSet[target] = true
					}
				}
			}
		})
	}

	for m := range missingSet {
		missing = append(missing, m)
	}
	for l := range leftoverSet {
		leftover = append(leftover, l)
	}
	sort.Strings(missing)
	sort.Strings(leftover)
	return missing, leftover, nil
}
