// Package runs implements the `offliner runs` command over the run
// ledger.
package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"offliner/pkg/db"
)

// RunsAction lists recent runs, or shows one run's per-resource outcomes
// when a run id argument is given.
func RunsAction(c *cli.Context) error {
	ledger, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer ledger.Close()

	if c.NArg() > 0 {
		return showRun(ledger, c.Args().Get(0))
	}
	return listRuns(ledger, c.Int("limit"))
}

func listRuns(ledger *db.DB, limit int) error {
	runs, err := ledger.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	fmt.Printf("%-36s %-20s %-10s %-8s %-8s %-8s %-10s\n",
		"Run ID", "Started", "Downloaded", "Tracker", "Existing", "Failed", "Bytes")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-10d %-8d %-8d %-8d %-10d\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Downloaded,
			r.SkippedTracker,
			r.SkippedExisting,
			r.Failed,
			r.TotalBytes,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'offliner runs <run-id>' to see per-resource outcomes\n")
	return nil
}

func showRun(ledger *db.DB, runID string) error {
	run, err := ledger.GetRun(runID)
	if err != nil {
		return err
	}
	resources, err := ledger.GetRunResources(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:     %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt.Valid {
		fmt.Printf("Finished:    %s\n", run.FinishedAt.Time.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Manifest:    %s\n", run.Manifest)
	fmt.Printf("Out root:    %s\n", run.OutRoot)
	fmt.Printf("Outcome:     %d downloaded, %d skipped-tracker, %d skipped-existing, %d failed (%d bytes)\n",
		run.Downloaded, run.SkippedTracker, run.SkippedExisting, run.Failed, run.TotalBytes)

	if len(resources) > 0 {
		fmt.Printf("\nResources (%d):\n", len(resources))
		fmt.Println(strings.Repeat("-", 60))
		for i, r := range resources {
			fmt.Printf("%3d. [%s] %s\n", i+1, r.Status, r.URL)
			if r.Status == "failed" {
				fmt.Printf("     Error: [%s] %s\n", r.ErrorType, r.ErrorMessage)
			} else if r.LocalPath != "" {
				fmt.Printf("     Local: %s | Status: %d | Size: %d bytes\n", r.LocalPath, r.HTTPStatus, r.SizeBytes)
			}
		}
	}
	return nil
}
