// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/command"
)

// Doc generator driven by the live command tree:
// - docs/man/share/man1/vanrally[-<cmd>].1 via md2man
// - docs/tldr/vanrally[-<cmd>].md from the examples below

// examples are the tldr entries, keyed by command path.
var examples = map[string][]example{
	"vanrally": {
		{"List every rally route with its transfer dates", "vanrally"},
		{"Print the report in Spanish", "vanrally --language es"},
		{"Emit the routes as JSON, skipping the cache", "vanrally --no-cache -o json"},
	},
	"vanrally cache": {
		{"Show cached responses with their age", "vanrally cache info"},
		{"Drop expired responses only", "vanrally cache purge"},
		{"Remove the whole cache", "vanrally cache clear"},
	},
	"vanrally completion": {
		{"Load bash completion for the current shell", "source <(vanrally completion bash)"},
	},
}

func main() {
	var (
		repoRoot           string
		cfgPath            string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.StringVar(&cfgPath, "config", "config.example.yaml", "configuration used to build the command tree")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, d := range []string{manOutDir, tldrOutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fatalf("creating output dir: %v", err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"vanrally"}, filepath.Join(repoRoot, cfgPath))
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	walk(app, "", func(path string, cmd *cli.Command) {
		base := strings.ReplaceAll(path, " ", "-")

		manPath := filepath.Join(manOutDir, base+".1")
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(renderMarkdown(path, cmd))), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", path, err)
		}

		tldrPath := filepath.Join(tldrOutDir, base+".md")
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(path, cmd.Usage, examples[path])), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", path, err)
		}

		processed++
	})

	fmt.Printf("generated docs for %d commands\n", processed)
}

// walk visits cmd and every visible subcommand depth first. path is the space
// separated command path, e.g. "vanrally cache".
func walk(cmd *cli.Command, parent string, fn func(path string, cmd *cli.Command)) {
	path := strings.TrimSpace(parent + " " + cmd.Name)
	fn(path, cmd)
	for _, sub := range cmd.Commands {
		if sub.Hidden || sub.Name == "help" {
			continue
		}
		walk(sub, path, fn)
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

type usager interface{ GetUsage() string }
type envVarer interface{ GetEnvVars() []string }

// renderMarkdown returns the md2man source for one command.
func renderMarkdown(path string, cmd *cli.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%% %s(1)\n\n", strings.ToUpper(strings.ReplaceAll(path, " ", "-")))

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s - %s\n\n", path, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	synopsis := cmd.UsageText
	if synopsis == "" {
		synopsis = path + " [options]"
		if len(cmd.Commands) > 0 {
			synopsis += " [command]"
		}
	}
	fmt.Fprintf(&b, "**%s**\n\n", synopsis)

	if cmd.Description != "" {
		b.WriteString("# DESCRIPTION\n\n")
		b.WriteString(cmd.Description + "\n\n")
	}

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			b.WriteString(flagMarkdown(f))
		}
	}

	var subs []*cli.Command
	for _, sub := range cmd.Commands {
		if !sub.Hidden && sub.Name != "help" {
			subs = append(subs, sub)
		}
	}
	if len(subs) > 0 {
		b.WriteString("# COMMANDS\n\n")
		for _, sub := range subs {
			fmt.Fprintf(&b, "**%s**\n: %s\n\n", sub.Name, sub.Usage)
		}
	}

	if exs := examples[path]; len(exs) > 0 {
		b.WriteString("# EXAMPLES\n\n")
		for _, ex := range exs {
			fmt.Fprintf(&b, "%s:\n\n    %s\n\n", ex.Desc, ex.Cmd)
		}
	}

	return b.String()
}

func flagMarkdown(f cli.Flag) string {
	var names []string
	for _, n := range f.Names() {
		if len(n) == 1 {
			names = append(names, "**-"+n+"**")
		} else {
			names = append(names, "**--"+n+"**")
		}
	}

	usage := ""
	if u, ok := f.(usager); ok {
		usage = u.GetUsage()
	}
	if e, ok := f.(envVarer); ok {
		if envs := e.GetEnvVars(); len(envs) > 0 {
			usage += " [$" + strings.Join(envs, ", $") + "]"
		}
	}

	return fmt.Sprintf("%s\n: %s\n\n", strings.Join(names, ", "), strings.TrimSpace(usage))
}

type example struct {
	Desc string
	Cmd  string
}

func buildTLDR(path, short string, exs []example) string {
	var b strings.Builder
	b.WriteString("# " + path + "\n\n")
	if short != "" {
		b.WriteString("> " + strings.ToUpper(short[:1]) + short[1:] + ".\n")
	} else {
		b.WriteString("> " + path + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/vanrally.\n\n")

	if len(exs) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`" + path + " --help`\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.TrimSpace(ex.Desc) + ":\n\n")
		b.WriteString("`" + strings.Join(strings.Fields(ex.Cmd), " ") + "`\n")
	}
	return b.String()
}
