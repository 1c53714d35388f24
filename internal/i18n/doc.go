// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package i18n holds the translation tables used for console output. Tables
// are JSON key/string maps, one file per language, with English as the
// fallback for unknown languages and missing keys.
package i18n
