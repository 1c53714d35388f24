// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/staranto/vanrally/internal/report"
)

// Formats accepted by --output.
var Formats = []string{"text", "json", "yaml"}

// Emit writes the complete route list in a machine readable format. text is
// not handled here; the console layout streams through Printer.
func Emit(w io.Writer, routes []report.Route, format string) error {
	if routes == nil {
		routes = []report.Route{}
	}

	switch format {
	case "json":
		jsonOutput, err := json.MarshalIndent(routes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal routes: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(routes)
		if err != nil {
			return fmt.Errorf("failed to marshal routes: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
