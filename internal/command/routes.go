// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/i18n"
	"github.com/staranto/vanrally/internal/output"
	"github.com/staranto/vanrally/internal/rally"
	"github.com/staranto/vanrally/internal/report"
)

// RoutesCommandAction is the root action. It fetches the live station list,
// keeps the rally-capable stations and prints every route with its transfer
// dates. Upstream failures for individual stations are logged and skipped.
func RoutesCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	lang := language(cmd)
	format := cmd.String("output")
	w := writer(cmd)

	tr := i18n.Load(lang)
	client := rally.NewClient(&m.Config, RunStore(cmd, &m.Config), lang, nil)
	printer := output.NewPrinter(w, tr, &m.Config, cmd.Bool("color"))
	text := format == "text"

	if text {
		printer.Obtaining()
	}

	stations, err := client.Stations(ctx)
	if err != nil {
		log.WithError(err).Error("failed to obtain station list")
	}

	builder := NewBuilder(client, &m.Config)
	origins := builder.Origins(ctx, stations)
	log.Debugf("%d of %d stations allow rally", len(origins), len(stations))

	if len(origins) == 0 {
		if text {
			printer.NoStations()
			return nil
		}
		return output.Emit(w, nil, format)
	}

	if text {
		printer.FoundRoutes()
		return builder.Each(ctx, origins, func(r report.Route) error {
			printer.Route(r)
			return nil
		})
	}

	var routes []report.Route
	if err := builder.Each(ctx, origins, func(r report.Route) error {
		routes = append(routes, r)
		return nil
	}); err != nil {
		return err
	}
	return output.Emit(w, routes, format)
}
