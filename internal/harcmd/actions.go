// Package harcmd implements the `offliner har` command: merge the
// resources observed in a browser HAR capture into a manifest.
package harcmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"offliner/internal/common"
	"offliner/pkg/har"
)

func HarAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), "")

	if c.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: offliner har <existing-manifest.json> <capture.har> [output.json]")
		return cli.Exit("", 1)
	}
	manifestPath := c.Args().Get(0)
	harPath := c.Args().Get(1)
	outputPath := manifestPath
	if c.NArg() > 2 {
		outputPath = c.Args().Get(2)
	}

	resources, err := har.Extract(harPath)
	if err != nil {
		logger.Error("failed to extract HAR resources", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	logger.Info("HAR resources extracted", "path", harPath, "count", len(resources))

	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		logger.Error("failed to read manifest", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	merged, added, err := har.Merge(manifestData, resources)
	if err != nil {
		logger.Error("failed to merge resources", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	if err := os.WriteFile(outputPath, merged, 0644); err != nil {
		logger.Error("failed to write merged manifest", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	fmt.Printf("Updated %s with %d new resources (%d seen in HAR)\n", outputPath, added, len(resources))
	return nil
}
