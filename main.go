// offliner downloads the resources of a web-capture manifest, rewrites
// their URLs for offline serving, and optionally serves the result.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"offliner/internal/download"
	"offliner/internal/harcmd"
	"offliner/internal/runs"
	"offliner/internal/servecmd"
	"offliner/pkg/db"
)

func main() {
	app := &cli.App{
		Name:  "offliner",
		Usage: "capture web resources locally and make them work offline",
		Commands: []*cli.Command{
			{
				Name:   "download",
				Usage:  "download the resources of a manifest and rewrite them for offline use",
				Action: download.DownloadAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "manifest",
						Usage:    "path to the manifest JSON (list of {url, path?, type?})",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out-root",
						Value: "./local_www",
						Usage: "directory the capture is written to",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Value: 8,
						Usage: "number of concurrent downloads",
					},
					&cli.BoolFlag{
						Name:  "skip-existing",
						Usage: "skip downloads whose local file already exists",
					},
					&cli.BoolFlag{
						Name:  "no-rewrite",
						Usage: "store files exactly as fetched, without URL rewriting",
					},
					&cli.BoolFlag{
						Name:  "serve",
						Usage: "serve the out-root after the run",
					},
					&cli.IntFlag{
						Name:  "port",
						Value: 8000,
						Usage: "port for --serve",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "optional YAML config (blocklist patterns, retry policy)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "overall run deadline (e.g. 10m); partial output is kept",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "run ledger path (default " + db.DefaultDBName + ")",
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "duplicate logs to this rotating file",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:      "har",
				Usage:     "merge a HAR capture's resources into a manifest",
				ArgsUsage: "<existing-manifest.json> <capture.har> [output.json]",
				Action:    harcmd.HarAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "serve a previously captured out-root",
				Action: servecmd.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out-root",
						Value: "./local_www",
						Usage: "capture directory to serve",
					},
					&cli.IntFlag{
						Name:  "port",
						Value: 8000,
						Usage: "port to listen on",
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "duplicate logs to this rotating file",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:      "runs",
				Usage:     "list recorded runs, or show one run's resources",
				ArgsUsage: "[run-id]",
				Action:    runs.RunsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "run ledger path",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "number of runs to list",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
