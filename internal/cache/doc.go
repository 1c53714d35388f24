// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the file-based, time-expiring response cache used to
// avoid repeated upstream calls for slowly changing rally data.
package cache
