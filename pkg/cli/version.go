/*
Copyright © 2025 Wattline
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/wattline/emporia/pkg/serializer"
)

// buildInfo describes the binary that is running, as stamped at build time.
type buildInfo struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:                  "version",
		EnableShellCompletion: true,
		Usage:                 "Print version and build information",
		Description: `Print the version, commit, and build date stamped into this binary,
plus the Go runtime it was compiled with. Unstamped development builds
report "dev" and "unknown".`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(w)

			return w.Serialize(ctx, buildInfo{
				Name:      name,
				Version:   version,
				Commit:    commit,
				BuildDate: date,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
}
