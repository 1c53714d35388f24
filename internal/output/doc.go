// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders rally routes for the console in text, JSON or YAML,
// and the cache listing used by the cache subcommands.
package output
