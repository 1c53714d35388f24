// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"

	"github.com/staranto/vanrally/internal/cache"
)

// CacheTable renders the cache listing: key, age, size and whether the entry
// is still served.
func CacheTable(w io.Writer, entries []cache.Entry, now time.Time) {
	if len(entries) == 0 {
		return
	}

	var rows [][]string
	for _, e := range entries {
		state := "fresh"
		if e.Expired {
			state = "expired"
		}
		rows = append(rows, []string{
			e.EncodedKey,
			humanize.RelTime(e.StoredAt, now, "ago", "from now"),
			humanize.Bytes(uint64(e.Size)), //nolint:gosec
			state,
		})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers("Key", "Stored", "Size", "State").
		BorderHeader(false).
		Rows(rows...)

	fmt.Fprintln(w, t)
}
