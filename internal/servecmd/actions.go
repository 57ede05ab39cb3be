// Package servecmd implements the standalone `offliner serve` command.
package servecmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"offliner/internal/common"
	"offliner/pkg/server"
)

func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.String("log-file"))

	root := c.String("out-root")
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logger.Error("out-root is not a directory", "path", root)
		return cli.Exit(fmt.Sprintf("Error: out-root %s is not a directory", root), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, root, c.Int("port"), logger); err != nil {
		logger.Error("serve failed", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	return nil
}
