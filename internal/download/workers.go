package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"offliner/internal/common"
	"offliner/models"
	"offliner/pkg/assetpath"
	"offliner/pkg/blocklist"
	"offliner/pkg/config"
	"offliner/pkg/fetcher"
	"offliner/pkg/manifest"
	"offliner/pkg/rewrite"
	"offliner/pkg/storage"
)

// Run executes the capture pipeline over the manifest entries: classify,
// fetch with a bounded worker pool, then rewrite text assets once all
// fetches have completed. Per-entry failures are recorded on the outcome
// and never abort the run; the returned error is reserved for fatal setup
// problems.
func Run(ctx context.Context, logger *slog.Logger, cfg *config.Config, entries []manifest.Entry, opts Options) (*Outcome, error) {
	store, err := storage.New(opts.OutRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare out-root: %w", err)
	}

	jobsList, preResults := classify(logger, cfg, entries)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	logger.Info("starting concurrent fetch phase",
		"entries", len(entries), "jobs", len(jobsList), "workers", concurrency,
		"skip_existing", opts.SkipExisting)

	f := fetcher.New(cfg.Fetch)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(jobsList))
	results := make(chan Result, len(jobsList))

	for w := 1; w <= concurrency; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, f, store, opts.SkipExisting, &wg, jobs, results)
	}

	for _, j := range jobsList {
		jobs <- j
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("all fetch workers finished")

	outcome := collect(entries, preResults, results)

	if !opts.NoRewrite {
		outcome.RewrittenCount = rewritePhase(logger, store, outcome)
	}
	return outcome, nil
}

// classify splits the manifest into fetch jobs and entries resolved
// without a network call (trackers, underivable paths). Path assignment
// is a sequential pre-pass so collision suffixes do not depend on worker
// scheduling.
func classify(logger *slog.Logger, cfg *config.Config, entries []manifest.Entry) ([]Job, []Result) {
	trackers := blocklist.NewMatcher(cfg.Blocklist)
	resolver := assetpath.NewResolver()

	var jobs []Job
	var pre []Result
	for _, e := range entries {
		if trackers.Blocked(e.URL) {
			logger.Info("skipping tracker URL", "url", e.URL)
			pre = append(pre, Result{Entry: e, Status: models.StatusSkippedTracker})
			continue
		}

		var a assetpath.Asset
		var err error
		if e.Path != "" {
			a, err = resolver.AssignPath(e.URL, e.Path)
		} else {
			a, err = resolver.Assign(e.URL)
		}
		if err != nil {
			logger.Error("cannot derive local path", "url", e.URL, "error", err)
			pre = append(pre, Result{Entry: e, Status: models.StatusFailed, Error: err, ErrorType: "path_error"})
			continue
		}
		jobs = append(jobs, Job{Entry: e, Asset: a, Kind: models.KindOf(e.Type, a.Rel)})
	}
	return jobs, pre
}

// worker is a goroutine that processes jobs from the jobs channel and
// sends results to the results channel.
func worker(ctx context.Context, id int, logger *slog.Logger, f *fetcher.Fetcher, store *storage.Storage, skipExisting bool, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		result := Result{Entry: job.Entry, Asset: job.Asset, Kind: job.Kind}

		if ctx.Err() != nil {
			result.Status = models.StatusFailed
			result.Error = ctx.Err()
			result.ErrorType = "canceled"
			results <- result
			continue
		}

		if skipExisting && store.HasFile(job.Asset.Rel) {
			size, err := store.FileSize(job.Asset.Rel)
			if err != nil {
				logger.Warn("failed to stat existing file", "worker_id", id, "path", job.Asset.Rel, "error", err)
			}
			logger.Info("local file exists, skipping fetch", "worker_id", id, "url", job.Entry.URL)
			result.Status = models.StatusSkippedExisting
			result.SizeBytes = size
			results <- result
			continue
		}

		logger.Info("worker started job", "worker_id", id, "url", job.Entry.URL)
		body, status, err := f.Get(ctx, job.Entry.URL)
		result.HTTPStatus = status
		if err != nil {
			logger.Error("error fetching resource", "worker_id", id, "url", job.Entry.URL, "status", status, "error", err)
			result.Status = models.StatusFailed
			result.Error = err
			result.ErrorType = classifyError(err)
			results <- result
			continue
		}

		if err := store.SaveFile(job.Asset.Rel, body); err != nil {
			logger.Error("error saving file", "worker_id", id, "path", job.Asset.Rel, "error", err)
			result.Status = models.StatusFailed
			result.Error = err
			result.ErrorType = "save_error"
			results <- result
			continue
		}

		result.Status = models.StatusDownloaded
		result.SizeBytes = int64(len(body))
		result.ContentHash = common.ContentHash(body)
		results <- result
		logger.Info("worker finished job", "worker_id", id, "url", job.Entry.URL, "bytes", len(body))
	}
}

func classifyError(err error) string {
	var se *fetcher.StatusError
	switch {
	case errors.As(err, &se):
		return "http_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "fetch_error"
	}
}

// collect is the single consumer of the results channel. It reorders
// results back into manifest order so counters, the rewrite map, and the
// ledger rows are identical at every concurrency level.
func collect(entries []manifest.Entry, pre []Result, results <-chan Result) *Outcome {
	byURL := make(map[string]Result, len(entries))
	for _, r := range pre {
		byURL[r.Entry.URL] = r
	}
	for r := range results {
		byURL[r.Entry.URL] = r
	}

	outcome := &Outcome{RewriteMap: rewrite.Map{}}
	for _, e := range entries {
		r, ok := byURL[e.URL]
		if !ok {
			continue
		}
		outcome.Results = append(outcome.Results, r)

		switch r.Status {
		case models.StatusDownloaded:
			outcome.Counters.Downloaded++
		case models.StatusSkippedTracker:
			outcome.Counters.SkippedTracker++
		case models.StatusSkippedExisting:
			outcome.Counters.SkippedExisting++
		case models.StatusFailed:
			outcome.Counters.Failed++
			outcome.Failed = append(outcome.Failed, r.Entry.URL)
		}

		if r.Status.OK() {
			outcome.TotalBytes += r.SizeBytes
			outcome.RewriteMap.Set(r.Entry.URL, r.Asset.Href)
			if r.Kind == models.KindHTML {
				outcome.HTMLRels = append(outcome.HTMLRels, r.Asset.Rel)
			}
		}
	}
	return outcome
}

// rewritePhase runs after the fetch barrier: every stored text asset gets
// its remote URLs replaced with local hrefs. Rewrite problems keep the
// original bytes and never fail the run.
func rewritePhase(logger *slog.Logger, store *storage.Storage, outcome *Outcome) int {
	rewritten := 0
	for _, r := range outcome.Results {
		if !r.Status.OK() || !r.Kind.IsText() {
			continue
		}
		content, err := store.ReadFile(r.Asset.Rel)
		if err != nil {
			logger.Warn("rewrite: cannot read stored file", "path", r.Asset.Rel, "error", err)
			continue
		}
		updated, changed, err := outcome.RewriteMap.Apply(content)
		if err != nil {
			logger.Warn("rewrite: keeping original bytes", "path", r.Asset.Rel, "error", err)
			continue
		}
		if !changed {
			continue
		}
		if err := store.SaveFile(r.Asset.Rel, updated); err != nil {
			logger.Warn("rewrite: cannot save rewritten file", "path", r.Asset.Rel, "error", err)
			continue
		}
		rewritten++
	}
	logger.Info("rewrite phase finished", "rewritten", rewritten)
	return rewritten
}
