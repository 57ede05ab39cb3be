package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"offliner/internal/common"
	"offliner/pkg/blocklist"
	"offliner/pkg/config"
	"offliner/pkg/db"
	"offliner/pkg/manifest"
	"offliner/pkg/report"
	"offliner/pkg/rewrite"
	"offliner/pkg/server"
	"offliner/pkg/storage"
)

// DownloadAction is the `offliner download` entrypoint: load the
// manifest, run the fetch/rewrite pipeline, write the reports, record the
// run in the ledger, and optionally serve the result.
func DownloadAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.String("log-file"))
	startTime := time.Now()

	cfg := config.Default()
	if c.IsSet("config") {
		var err error
		cfg, err = config.Load(c.String("config"))
		if err != nil {
			logger.Error("failed to load config", "error", err)
			return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
		}
	}

	manifestPath := c.String("manifest")
	entries, err := manifest.Load(manifestPath)
	if err != nil {
		logger.Error("failed to load manifest", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	logger.Info("manifest loaded", "path", manifestPath, "entries", len(entries))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.IsSet("timeout") {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Duration("timeout"))
		defer cancel()
	}

	ledger, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open run ledger", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	defer ledger.Close()

	runID := uuid.NewString()
	outRoot := c.String("out-root")
	if err := ledger.InsertRun(runID, manifestPath, outRoot, startTime); err != nil {
		logger.Warn("failed to record run start", "error", err)
	}

	opts := Options{
		OutRoot:      outRoot,
		Concurrency:  c.Int("concurrency"),
		SkipExisting: c.Bool("skip-existing"),
		NoRewrite:    c.Bool("no-rewrite"),
	}
	outcome, err := Run(ctx, logger, cfg, entries, opts)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	recordRun(logger, ledger, runID, outcome)
	if err := ledger.FinishRun(runID, time.Now(),
		outcome.Counters.Downloaded, outcome.Counters.SkippedTracker,
		outcome.Counters.SkippedExisting, outcome.Counters.Failed,
		outcome.TotalBytes); err != nil {
		logger.Warn("failed to record run end", "error", err)
	}

	store, err := storage.New(outRoot)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	verify := &report.Verify{
		FoundURLsCount:      len(entries),
		Counters:            outcome.Counters,
		DownloadsTotalBytes: outcome.TotalBytes,
		DownloadFailures:    outcome.Failed,
		RewrittenCount:      outcome.RewrittenCount,
		RemovedBlocked:      outcome.Counters.SkippedTracker,
	}

	if !opts.NoRewrite {
		local := rewrite.Manifest(entries, outcome.RewriteMap, blocklist.NewMatcher(cfg.Blocklist))
		rel := rewrite.ManifestPath(manifestPath)
		if err := manifest.Save(filepath.Join(store.Root(), filepath.FromSlash(rel)), local); err != nil {
			logger.Warn("failed to save rewritten manifest", "error", err)
		} else {
			verify.RewrittenManifest = rel
			fmt.Printf("Saved rewritten manifest to: %s\n", filepath.Join(outRoot, filepath.FromSlash(rel)))
		}
	}

	missing, leftover, err := report.Audit(store, outcome.HTMLRels)
	if err != nil {
		logger.Warn("offline audit failed", "error", err)
	} else {
		verify.MissingFiles = missing
		verify.LeftoverRemoteURLs = leftover
	}
	verify.Pages = report.DescribePages(store, outcome.HTMLRels, logger)

	if err := report.Write(store, verify); err != nil {
		logger.Warn("failed to write verify report", "error", err)
	}

	fmt.Printf("Summary: %s\n", outcome.Counters)
	logger.Info("run complete", "run_id", runID, "duration_s", time.Since(startTime).Seconds(), "total_bytes", outcome.TotalBytes)

	if c.Bool("serve") {
		if err := server.Serve(ctx, store.Root(), c.Int("port"), logger); err != nil {
			logger.Error("serve failed", "error", err)
			return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
		}
	}

	if outcome.AnyFailed() {
		return cli.Exit(fmt.Sprintf("%d resource(s) failed to download", outcome.Counters.Failed), 1)
	}
	return nil
}

// recordRun writes one ledger row per manifest entry.
func recordRun(logger *slog.Logger, ledger *db.DB, runID string, outcome *Outcome) {
	for _, r := range outcome.Results {
		row := db.Resource{
			RunID:       runID,
			URL:         r.Entry.URL,
			LocalPath:   r.Asset.Rel,
			Status:      r.Status.String(),
			HTTPStatus:  r.HTTPStatus,
			SizeBytes:   r.SizeBytes,
			ContentHash: r.ContentHash,
		}
		if r.Error != nil {
			row.ErrorType = r.ErrorType
			row.ErrorMessage = r.Error.Error()
		}
		if err := ledger.InsertResource(row); err != nil {
			logger.Warn("failed to record resource", "url", r.Entry.URL, "error", err)
		}
	}
}
