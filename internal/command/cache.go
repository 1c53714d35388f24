// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/i18n"
	"github.com/staranto/vanrally/internal/meta"
	"github.com/staranto/vanrally/internal/output"
)

// CacheClearAction removes the whole cache directory.
func CacheClearAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	store := OpenStore(&m.Config)
	log.Debugf("clearing cache in %s", store.Dir)

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(writer(cmd), i18n.Load(language(cmd)).Get("cache_cleared"))
	return nil
}

// CachePurgeAction removes only expired or unreadable entries.
func CachePurgeAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	store := OpenStore(&m.Config)

	removed, err := store.Purge()
	if err != nil {
		return err
	}
	fmt.Fprintf(writer(cmd), "%s: %d\n", i18n.Load(language(cmd)).Get("cache_purged"), removed)
	return nil
}

// CacheInfoAction lists the cache entries with their age and size.
func CacheInfoAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	store := OpenStore(&m.Config)

	entries, err := store.Entries()
	if err != nil {
		return err
	}

	w := writer(cmd)
	if len(entries) == 0 {
		fmt.Fprintln(w, i18n.Load(language(cmd)).Get("cache_empty"))
		return nil
	}

	fmt.Fprintf(w, "%s (ttl %s)\n", store.Dir, store.TTL)
	output.CacheTable(w, entries, time.Now())
	return nil
}

// CacheCommandBuilder constructs the "cache" command and its subcommands.
func CacheCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "manage the response cache",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "remove every cached response",
				Action: CacheClearAction,
			},
			{
				Name:   "purge",
				Usage:  "remove expired cached responses",
				Action: CachePurgeAction,
			},
			{
				Name:   "info",
				Usage:  "list cached responses",
				Action: CacheInfoAction,
			},
		},
	}
}
