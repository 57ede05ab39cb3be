// Package report produces the end-of-run verify document: outcome
// counters, failures, and an audit of how usable the capture is offline.
package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"offliner/pkg/storage"
)

// VerifyFile is the report's filename under the out-root.
const VerifyFile = "verify.json"

// Counters are the per-status entry counts for one run.
type Counters struct {
	Downloaded      int `json:"downloaded"`
	SkippedTracker  int `json:"skipped_tracker"`
	SkippedExisting int `json:"skipped_existing"`
	Failed          int `json:"failed"`
}

// String renders the counters as the one-line run summary.
func (c Counters) String() string {
	return fmt.Sprintf("downloaded: %d, skipped-tracker: %d, skipped-existing: %d, failed: %d",
		c.Downloaded, c.SkippedTracker, c.SkippedExisting, c.Failed)
}

// Verify is the aggregate run report written to the out-root. Its content
// is deterministic: no timestamps, all lists sorted, so identical runs
// produce byte-identical files.
type Verify struct {
	FoundURLsCount      int        `json:"found_urls_count"`
	Counters            Counters   `json:"counters"`
	DownloadsTotalBytes int64      `json:"downloads_total_bytes"`
	DownloadFailures    []string   `json:"download_failures"`
	RewrittenCount      int        `json:"rewritten_count"`
	RemovedBlocked      int        `json:"removed_blocked"`
	RewrittenManifest   string     `json:"rewritten_manifest,omitempty"`
	MissingFiles        []string   `json:"missing_files"`
	LeftoverRemoteURLs  []string   `json:"leftover_remote_urls"`
	Pages               []PageMeta `json:"pages,omitempty"`
}

// Write stores the verify document at the storage root.
func Write(s *storage.Storage, v *Verify) error {
	sort.Strings(v.DownloadFailures)
	sort.Strings(v.MissingFiles)
	sort.Strings(v.LeftoverRemoteURLs)
	sort.Slice(v.Pages, func(i, j int) bool { return v.Pages[i].Path < v.Pages[j].Path })
	if v.DownloadFailures == nil {
		v.DownloadFailures = []string{}
	}
	if v.MissingFiles == nil {
		v.MissingFiles = []string{}
	}
	if v.LeftoverRemoteURLs == nil {
		v.LeftoverRemoteURLs = []string{}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal verify report: %w", err)
	}
	data = append(data, '\n')
	if err := s.SaveFile(VerifyFile, data); err != nil {
		return fmt.Errorf("failed to write verify report: %w", err)
	}
	return nil
}
