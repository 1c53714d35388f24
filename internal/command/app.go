// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/config"
	"github.com/staranto/vanrally/internal/meta"
)

// InitApp loads and validates the configuration and builds the command tree.
// A configuration error is returned before any command runs.
func InitApp(ctx context.Context, args []string, cfgFilePath ...string) (*cli.Command, error) {
	cfg, err := config.Load(cfgFilePath...)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
	}

	app := &cli.Command{
		Name:  "vanrally",
		Usage: "list one-way rally transfers between rental stations",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "vanrally version info",
				HideDefault: true,
			},
		}, NewGlobalFlags(cfg.Source)...),
		Action: RoutesCommandAction,
	}

	app.Commands = append(app.Commands,
		CacheCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	sort.Slice(app.Flags, func(i, j int) bool {
		return app.Flags[i].Names()[0] < app.Flags[j].Names()[0]
	})

	return app, nil
}
