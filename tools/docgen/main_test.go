// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/command"
)

func TestWalkAndRender(t *testing.T) {
	app, err := command.InitApp(context.Background(), []string{"vanrally"}, filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	var paths []string
	pages := map[string]string{}
	walk(app, "", func(path string, cmd *cli.Command) {
		paths = append(paths, path)
		pages[path] = renderMarkdown(path, cmd)
	})

	assert.Equal(t, []string{
		"vanrally",
		"vanrally cache",
		"vanrally cache clear",
		"vanrally cache purge",
		"vanrally cache info",
		"vanrally completion",
	}, paths)

	root := pages["vanrally"]
	assert.Contains(t, root, "% VANRALLY(1)")
	assert.Contains(t, root, "**--language**, **-l**")
	assert.Contains(t, root, "$VANRALLY_LANGUAGE")
	assert.Contains(t, root, "**cache**\n: manage the response cache")
	assert.Contains(t, root, "vanrally --language es")

	assert.Contains(t, pages["vanrally completion"], "**vanrally completion [bash|zsh]**")
	assert.NotEmpty(t, md2man.Render([]byte(root)))
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR("vanrally cache", "manage the response cache", examples["vanrally cache"])
	assert.Contains(t, got, "# vanrally cache\n\n> Manage the response cache.\n")
	assert.Contains(t, got, "- Drop expired responses only:\n\n`vanrally cache purge`\n")

	got = buildTLDR("vanrally cache info", "", nil)
	assert.Contains(t, got, "`vanrally cache info --help`")
}

func TestWriteFileIfChanged(t *testing.T) {
	p := filepath.Join(t.TempDir(), "page.1")

	require.NoError(t, writeFileIfChanged(p, []byte("one\n"), true))
	info, err := os.Stat(p)
	require.NoError(t, err)

	// Whitespace-only differences are not rewritten.
	require.NoError(t, writeFileIfChanged(p, []byte("one\n\n"), true))
	again, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), again.Size())

	require.NoError(t, writeFileIfChanged(p, []byte("two\n"), true))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(b))
}
