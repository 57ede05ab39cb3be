package download

import (
	"offliner/models"
	"offliner/pkg/assetpath"
	"offliner/pkg/manifest"
	"offliner/pkg/report"
	"offliner/pkg/rewrite"
)

// Job is one fetch task handed to a worker.
type Job struct {
	Entry manifest.Entry
	Asset assetpath.Asset
	Kind  models.Kind
}

// Result holds the outcome of a processed job.
type Result struct {
	Entry      manifest.Entry
	Asset      assetpath.Asset
	Kind       models.Kind
	Status     models.FetchStatus
	HTTPStatus int
	SizeBytes  int64
	// ContentHash is the sha256 of the stored bytes, empty when nothing
	// was written this run.
	ContentHash string
	Error       error
	ErrorType   string
}

// Options are the per-run knobs from the CLI.
type Options struct {
	OutRoot      string
	Concurrency  int
	SkipExisting bool
	NoRewrite    bool
}

// Outcome is everything the fetch and rewrite phases produced, consumed
// by the reporting, ledger, and serve steps.
type Outcome struct {
	Results    []Result
	Counters   report.Counters
	TotalBytes int64
	Failed     []string // URLs that terminally failed
	RewriteMap rewrite.Map
	// HTMLRels lists captured HTML files (relative to the out-root) for
	// the offline audit and page metadata steps.
	HTMLRels       []string
	RewrittenCount int
}

// AnyFailed reports whether the run should exit non-zero.
func (o *Outcome) AnyFailed() bool {
	return o.Counters.Failed > 0
}
