// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/vanrally/internal/rally"
)

const (
	DefaultStationWorkers = 10
	DefaultRouteWorkers   = 5
)

// Fetcher is the subset of the rally client the builder needs.
type Fetcher interface {
	Station(ctx context.Context, id int) (*rally.Station, error)
	TransferDates(ctx context.Context, origin, destination int) ([]rally.DateRange, error)
}

// Destination is one reachable station and its transfer windows.
type Destination struct {
	Station rally.Station     `json:"station" yaml:"station"`
	Dates   []rally.DateRange `json:"dates" yaml:"dates"`
}

// Route is an origin and its destinations, in upstream order.
type Route struct {
	Origin       rally.Station `json:"origin" yaml:"origin"`
	Destinations []Destination `json:"destinations" yaml:"destinations"`
}

// Builder fans lookups out over bounded worker pools. Results always come back
// in input order.
type Builder struct {
	Fetcher        Fetcher
	StationWorkers int
	RouteWorkers   int
}

// FilterRally keeps the stations that allow one-way returns, preserving order.
func FilterRally(stations []rally.Station) []rally.Station {
	var filtered []rally.Station
	for _, s := range stations {
		if s.OneWay {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Origins filters stations to rally-capable ones and fetches their detail
// records. Stations whose detail cannot be fetched are dropped.
func (b *Builder) Origins(ctx context.Context, stations []rally.Station) []rally.Station {
	filtered := FilterRally(stations)
	if len(filtered) == 0 {
		return nil
	}

	details := make([]*rally.Station, len(filtered))

	var g errgroup.Group
	g.SetLimit(workers(b.StationWorkers, DefaultStationWorkers))
	for i, s := range filtered {
		g.Go(func() error {
			d, err := b.Fetcher.Station(ctx, s.ID)
			if err != nil {
				log.WithError(err).Warnf("skipping station %d", s.ID)
				return nil
			}
			details[i] = d
			return nil
		})
	}
	_ = g.Wait()

	origins := make([]rally.Station, 0, len(details))
	for _, d := range details {
		if d != nil {
			origins = append(origins, *d)
		}
	}
	return origins
}

// Destinations resolves every return station of origin along with the
// transfer dates. A destination whose detail is unavailable is omitted; one
// whose dates are unavailable is kept with no dates.
func (b *Builder) Destinations(ctx context.Context, origin rally.Station) []Destination {
	slots := make([]*Destination, len(origin.Returns))

	var g errgroup.Group
	g.SetLimit(workers(b.RouteWorkers, DefaultRouteWorkers))
	for i, id := range origin.Returns {
		g.Go(func() error {
			station, err := b.Fetcher.Station(ctx, id)
			if err != nil || station == nil {
				log.Debugf("skipping destination %d of %d: %v", id, origin.ID, err)
				return nil
			}

			dates, err := b.Fetcher.TransferDates(ctx, origin.ID, id)
			if err != nil {
				log.WithError(err).Warnf("no transfer dates for %d-%d", origin.ID, id)
			}

			slots[i] = &Destination{Station: *station, Dates: dates}
			return nil
		})
	}
	_ = g.Wait()

	destinations := make([]Destination, 0, len(slots))
	for _, d := range slots {
		if d != nil {
			destinations = append(destinations, *d)
		}
	}
	return destinations
}

// Each resolves the destinations of each origin in turn and hands the route to
// fn as soon as it is complete. A non-nil error from fn stops the walk.
func (b *Builder) Each(ctx context.Context, origins []rally.Station, fn func(Route) error) error {
	for _, o := range origins {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(Route{Origin: o, Destinations: b.Destinations(ctx, o)}); err != nil {
			return err
		}
	}
	return nil
}

// Build is Origins followed by Each, collecting every route.
func (b *Builder) Build(ctx context.Context, stations []rally.Station) ([]Route, error) {
	var routes []Route
	err := b.Each(ctx, b.Origins(ctx, stations), func(r Route) error {
		routes = append(routes, r)
		return nil
	})
	return routes, err
}

func workers(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
