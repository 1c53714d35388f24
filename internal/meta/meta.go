// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/vanrally/internal/config"
)

// Meta is what every command gets at startup: the arguments, the loaded
// configuration and the starting context. Built once in InitApp and carried in
// the command's Metadata.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
}
