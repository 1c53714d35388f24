// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"golang.org/x/term"

	"github.com/staranto/vanrally/internal/config"
	"github.com/staranto/vanrally/internal/i18n"
	"github.com/staranto/vanrally/internal/report"
)

// Printer writes the console report. It has no state beyond its settings, so
// every method is a pure formatting side effect on W.
type Printer struct {
	W             io.Writer
	Tr            *i18n.Table
	DirectionsURL string

	color       bool
	titleStyle  lipgloss.Style
	originStyle lipgloss.Style
	linkStyle   lipgloss.Style
}

// NewPrinter returns a Printer for w. Color is only honored when w is a
// terminal.
func NewPrinter(w io.Writer, tr *i18n.Table, cfg *config.Type, color bool) *Printer {
	if w == nil {
		w = os.Stdout
	}

	p := &Printer{
		W:             w,
		Tr:            tr,
		DirectionsURL: cfg.DirectionsURL(),
		color:         color && IsTerminal(w),
	}

	if p.color {
		title, origin, link := getColors(cfg, "colors")
		p.titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(title))
		p.originStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(origin))
		p.linkStyle = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color(link))
	}

	return p
}

// Obtaining announces the station list fetch.
func (p *Printer) Obtaining() {
	fmt.Fprintln(p.W, p.style(p.titleStyle, p.Tr.Get("obtaining_station_list")))
}

func (p *Printer) FoundRoutes() {
	fmt.Fprintf(p.W, "\n%s\n", p.style(p.titleStyle, p.Tr.Get("found_routes")))
}

func (p *Printer) Origin(name string) {
	fmt.Fprintf(p.W, "\n\n%s: %s\n", p.Tr.Get("origin"), p.style(p.originStyle, name))
}

// Destination prints a destination line with its directions link. Both
// addresses must already be escaped.
func (p *Printer) Destination(name, originAddress, destinationAddress string) {
	link := p.DirectionsURL + "/" + originAddress + "/" + destinationAddress
	fmt.Fprintf(p.W, "\n%s: %s - %s: %s\n",
		p.Tr.Get("destination"), name, p.Tr.Get("route"), p.style(p.linkStyle, link))
}

// Dates prints one window inline. start and end are already formatted.
func (p *Printer) Dates(start, end string) {
	fmt.Fprintf(p.W, "[%s - %s] ", start, end)
}

// EndDates terminates the inline date list.
func (p *Printer) EndDates() {
	fmt.Fprintln(p.W)
}

func (p *Printer) NoStations() {
	fmt.Fprintln(p.W, p.Tr.Get("no_stations_with_rally_found"))
}

// Route prints an origin block: header, then every destination with its
// dates.
func (p *Printer) Route(r report.Route) {
	p.Origin(r.Origin.Name)
	origin := EscapeAddress(r.Origin.Address)
	for _, d := range r.Destinations {
		p.Destination(d.Station.Name, origin, EscapeAddress(d.Station.Address))
		for _, dr := range d.Dates {
			p.Dates(FormatDate(dr.StartDate), FormatDate(dr.EndDate))
		}
		p.EndDates()
	}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// FormatDate turns the date portion of an ISO timestamp (YYYY-MM-DD...) into
// DD/MM/YYYY. Anything that does not start with a valid date is returned
// unchanged.
func FormatDate(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	t, err := time.Parse("2006-01-02", iso[:10])
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// EscapeAddress percent-encodes an address for use as a path segment of the
// directions URL. Unreserved characters, ':' and '/' are left alone.
func EscapeAddress(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == ':' || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// getColors returns configured color values for styled output.
func getColors(cfg *config.Type, key string) (title string, origin string, link string) {
	title, _ = cfg.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	origin, _ = cfg.GetString(fmt.Sprintf("%s.origin", key), "#ffffff")
	link, _ = cfg.GetString(fmt.Sprintf("%s.link", key), "#00c8f0")
	return
}
