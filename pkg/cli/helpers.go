/*
Copyright © 2025 Wattline
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wattline/emporia/pkg/serializer"
)

// outputFlag returns the output destination flag shared by commands that
// render a report. Each command gets its own instance because parsed values
// live on the flag itself.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

// formatFlag returns the output format flag shared by commands that render
// a report.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
		Value: string(serializer.FormatJSON),
	}
}

// parseOutputFormat reads the format flag and validates it against the
// formats the serializer supports.
func parseOutputFormat(c *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(c.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported values: %s)",
			c.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// closeWriter closes a report writer, logging rather than failing the
// command when the close itself errors.
func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close output writer", "error", err)
	}
}
