// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package rally is the client for the booking platform's rally (one-way
// transfer) API: the station list, per-station detail and the transfer date
// windows between two stations.
package rally
