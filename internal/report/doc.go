// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package report turns the raw station list into ordered rally routes: the
// rally-capable origins, their reachable destinations and the date windows
// for each transfer.
package report
