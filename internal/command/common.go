// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/cache"
	"github.com/staranto/vanrally/internal/config"
	"github.com/staranto/vanrally/internal/meta"
	"github.com/staranto/vanrally/internal/report"
)

// GetMeta returns the meta.Meta stored in the command's Metadata, walking up
// to the root for subcommands. If missing or of an unexpected type, it
// returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil {
		return meta.Meta{}
	}
	for _, c := range cmd.Lineage() {
		if c.Metadata == nil {
			continue
		}
		if m, ok := c.Metadata["meta"].(meta.Meta); ok {
			return m
		}
	}
	return meta.Meta{}
}

// OpenStore returns the cache store described by the configuration,
// regardless of whether caching is enabled for this run.
func OpenStore(cfg *config.Type) *cache.Store {
	dir, _ := cfg.GetString("cache.dir", "")
	ttl, _ := cfg.GetInt("cache.ttl", 0)
	return cache.New(cache.Dir(dir), time.Duration(ttl)*time.Second)
}

// RunStore is OpenStore for the report: nil when caching is disabled by
// --no-cache or VANRALLY_CACHE.
func RunStore(cmd *cli.Command, cfg *config.Type) *cache.Store {
	if cmd.Bool("no-cache") || !cache.Enabled() {
		log.Debug("response cache disabled")
		return nil
	}
	return OpenStore(cfg)
}

// NewBuilder returns a report builder sized from workers.stations and
// workers.routes.
func NewBuilder(f report.Fetcher, cfg *config.Type) *report.Builder {
	stations, _ := cfg.GetInt("workers.stations", report.DefaultStationWorkers)
	routes, _ := cfg.GetInt("workers.routes", report.DefaultRouteWorkers)
	return &report.Builder{
		Fetcher:        f,
		StationWorkers: stations,
		RouteWorkers:   routes,
	}
}

// language is the --language value as translation tables and the API expect
// it: lowercase, with '-' between subtags.
func language(cmd *cli.Command) string {
	return strings.ReplaceAll(strings.ToLower(cmd.String("language")), "_", "-")
}

// writer is where command output goes: the root command's Writer, or stdout.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
