// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// vanrally is the main package for the vanrally command line tool. It lists
// the one-way "rally" transfers offered between rental stations, wires the
// CLI and delegates to internal packages.
package main
