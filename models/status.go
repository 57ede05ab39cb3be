package models

// FetchStatus is the terminal state of one manifest entry after the fetch
// phase. SkippedExisting counts as success for exit-code purposes but is
// reported separately in the run summary.
type FetchStatus int

const (
	StatusDownloaded FetchStatus = iota
	StatusSkippedTracker
	StatusSkippedExisting
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusSkippedTracker:
		return "skipped-tracker"
	case StatusSkippedExisting:
		return "skipped-existing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OK reports whether the entry's bytes are present locally (either fetched
// this run or kept from a previous one).
func (s FetchStatus) OK() bool {
	return s == StatusDownloaded || s == StatusSkippedExisting
}
