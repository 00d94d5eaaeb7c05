/*
Copyright © 2025 Wattline
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wattline/emporia/pkg/api"
	"github.com/wattline/emporia/pkg/emporia"
	"github.com/wattline/emporia/pkg/serializer"
)

// statusReport combines the info and health endpoints of one service
// instance into a single renderable document.
type statusReport struct {
	Address string                `json:"address" yaml:"address"`
	Info    *api.InfoResponse     `json:"info" yaml:"info"`
	Health  *emporia.HealthStatus `json:"health" yaml:"health"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Probe a running service for build info and health",
		Description: `Fetch the info and health endpoints of a running service and render
the combined report.

The health portion reflects database connectivity: an instance that is
up but cannot reach PostgreSQL reports "unhealthy" together with a
reason, and the command still exits zero because the probe itself
succeeded. An unreachable service fails the command.

# Examples

Probe a local instance:
  emporia status

Probe a deployed instance and keep the report:
  emporia status --address https://emporia.example.com --output status.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Base URL of the running service",
				Sources: cli.EnvVars("EMPORIA_ADDRESS"),
				Value:   "http://localhost:8080",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for each probe request",
				Value: 10 * time.Second,
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			address := cmd.String("address")
			client, err := api.NewClient(address, api.WithTimeout(cmd.Duration("timeout")))
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", address, err)
			}

			info, err := client.Info(ctx)
			if err != nil {
				return fmt.Errorf("fetching service info from %s: %w", address, err)
			}

			health, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("fetching service health from %s: %w", address, err)
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(w)

			return w.Serialize(ctx, statusReport{
				Address: address,
				Info:    info,
				Health:  health,
			})
		},
	}
}
