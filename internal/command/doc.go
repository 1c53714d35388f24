// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI for vanrally. It wires flags, validators,
// the report action and the cache and completion subcommands.
package command
