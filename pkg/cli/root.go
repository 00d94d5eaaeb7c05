/*
Copyright © 2025 Wattline
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/wattline/emporia/pkg/logging"
)

const (
	name           = "emporia"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Root assembles the top-level command with all subcommands attached.
// Commands are constructed fresh on every call so tests can run them
// independently.
func Root() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Energy usage record service tooling",
		Description: fmt.Sprintf(`emporia - energy usage record service

Version: %s
Commit:  %s
Built:   %s

Tooling around the emporia usage API:

serve   - runs the HTTP API server backed by PostgreSQL
status  - probes a running instance for build info and health
openapi - exports the OpenAPI document the server publishes
version - prints build information for this binary`, version, commit, date),
		Commands: []*cli.Command{
			serveCmd(),
			statusCmd(),
			openapiCmd(),
			versionCmd(),
		},
	}
}

// Execute parses os.Args and runs the selected command. This is called by
// main.main() and owns process-level concerns: the signal context, the
// default logger, and the exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date)

	if err := Root().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
