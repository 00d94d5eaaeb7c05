/*
Copyright © 2025 Wattline
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wattline/emporia/pkg/docs"
	"github.com/wattline/emporia/pkg/serializer"
)

func openapiCmd() *cli.Command {
	return &cli.Command{
		Name:                  "openapi",
		EnableShellCompletion: true,
		Usage:                 "Export the service OpenAPI document",
		Description: `Write the OpenAPI 3 document the server publishes at
/api/v1/emporia/openapi.yaml to stdout or a file.

The embedded document is validated before export, so a non-zero exit
means the build carries a broken contract. The JSON encoding is the
same rendering served at /api/v1/emporia/openapi.json.

# Examples

Print the contract:
  emporia openapi

Write the JSON rendering for a client generator:
  emporia openapi --format json --output emporia.json`,
		Flags: []cli.Flag{
			outputFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Usage:   "Document encoding (supported values: yaml, json)",
				Value:   string(serializer.FormatYAML),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			d, err := docs.New(ctx)
			if err != nil {
				return fmt.Errorf("loading OpenAPI document: %w", err)
			}

			var body []byte
			switch serializer.Format(cmd.String("format")) {
			case serializer.FormatYAML:
				body = d.YAML()
			case serializer.FormatJSON:
				body = d.JSON()
			default:
				return fmt.Errorf("unknown document encoding: %q (supported values: yaml, json)",
					cmd.String("format"))
			}

			if path := cmd.String("output"); path != "" {
				return serializer.WriteToFile(path, body)
			}

			_, err = os.Stdout.Write(body)
			return err
		},
	}
}
