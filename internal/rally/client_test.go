// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package rally

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/vanrally/internal/cache"
	"github.com/staranto/vanrally/internal/config"
)

// fakeAPI serves canned bodies by path and records each request.
type fakeAPI struct {
	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	requests []*http.Request
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(context.Background()))
	code, failed := f.statuses[r.URL.Path]
	body, ok := f.bodies[r.URL.Path]
	f.mu.Unlock()

	if failed {
		w.WriteHeader(code)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = body
}

func (f *fakeAPI) hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.URL.Path == path {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *cache.Store) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
api:
  base_url: `+srv.URL+`
  referer: https://booking.test.com
  endpoints:
    stations: /api/stations
    timeframes: /api/timeframes
maps:
  directions_url: https://maps.test.com
`), 0o600))
	cfg, err := config.Load(p)
	require.NoError(t, err)

	store := cache.New(filepath.Join(t.TempDir(), "cache"), cache.DefaultTTL)
	return NewClient(&cfg, store, "es", srv.Client()), store
}

func TestStations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "bare array",
			body: `[{"id":1,"name":"Madrid","one_way":true},{"id":2,"name":"Lisbon","one_way":false}]`,
		},
		{
			name: "data envelope",
			body: `{"data":[{"id":1,"name":"Madrid","one_way":true},{"id":2,"name":"Lisbon","one_way":false}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{bodies: map[string]string{"/api/stations": tt.body}}
			c, store := newTestClient(t, api)

			stations, err := c.Stations(context.Background())
			require.NoError(t, err)
			require.Len(t, stations, 2)
			assert.Equal(t, 1, stations[0].ID)
			assert.True(t, stations[0].OneWay)
			assert.False(t, stations[1].OneWay)

			// The station list is never cached.
			_, err = c.Stations(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, api.hits("/api/stations"))
			_, ok := store.Get(c.StationsURL)
			assert.False(t, ok)
		})
	}
}

func TestStation_Cached(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{
		"/api/stations/7": `{"id":7,"name":"Porto","address":"Rua 1, Porto","returns":[2,3]}`,
	}}
	c, store := newTestClient(t, api)

	for i := 0; i < 3; i++ {
		s, err := c.Station(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Porto", s.Name)
		assert.Equal(t, "Rua 1, Porto", s.Address)
		assert.Equal(t, []int{2, 3}, s.Returns)
	}
	assert.Equal(t, 1, api.hits("/api/stations/7"))

	_, ok := store.Get(c.StationsURL + "/7")
	assert.True(t, ok)
}

func TestTransferDates(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{
		"/api/timeframes/1-2": `[{"startDate":"2025-01-01T00:00:00Z","endDate":"2025-01-08T00:00:00Z"}]`,
	}}
	c, _ := newTestClient(t, api)

	dates, err := c.TransferDates(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []DateRange{{StartDate: "2025-01-01T00:00:00Z", EndDate: "2025-01-08T00:00:00Z"}}, dates)

	_, err = c.TransferDates(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, api.hits("/api/timeframes/1-2"))
}

func TestHeaders(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{
		"/api/stations":       `[]`,
		"/api/stations/1":     `{"id":1}`,
		"/api/timeframes/1-2": `[]`,
	}}
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.Stations(ctx)
	require.NoError(t, err)
	_, err = c.Station(ctx, 1)
	require.NoError(t, err)
	_, err = c.TransferDates(ctx, 1, 2)
	require.NoError(t, err)

	require.Len(t, api.requests, 3)
	wantAliases := []string{AliasStartStations, AliasFetchRoutes, AliasTimeframes}
	for i, r := range api.requests {
		assert.Equal(t, wantAliases[i], r.Header.Get("X-Requested-Alias"))
		assert.Equal(t, "es-ES,es;q=0.7", r.Header.Get("Accept-Language"))
		assert.Equal(t, "https://booking.test.com/es/rally?currency=EUR", r.Header.Get("Referer"))
		assert.Equal(t, "application/json, text/plain, */*", r.Header.Get("Accept"))
		assert.Equal(t, http.MethodGet, r.Method)
	}
}

func TestErrors(t *testing.T) {
	api := &fakeAPI{
		bodies:   map[string]string{"/api/stations/3": `not json`},
		statuses: map[string]int{"/api/stations/2": http.StatusInternalServerError},
	}
	c, store := newTestClient(t, api)
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		_, err := c.Station(ctx, 2)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.Code)
		_, ok := store.Get(c.StationsURL + "/2")
		assert.False(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.TransferDates(ctx, 9, 9)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := c.Station(ctx, 3)
		assert.ErrorIs(t, err, ErrInvalidJSON)
		_, ok := store.Get(c.StationsURL + "/3")
		assert.False(t, ok)
	})

	t.Run("transport", func(t *testing.T) {
		broken := *c
		broken.StationsURL = "http://127.0.0.1:0/api/stations"
		_, err := broken.Stations(ctx)
		assert.Error(t, err)
	})
}

func TestNoCache(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{"/api/stations/1": `{"id":1}`}}
	c, _ := newTestClient(t, api)
	c.Cache = nil

	for i := 0; i < 2; i++ {
		_, err := c.Station(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, api.hits("/api/stations/1"))
}

func TestStation_WrongShapeNotCached(t *testing.T) {
	tests := []struct {
		name string
		bad  string
	}{
		{"string id", `{"id":"seven","name":"Porto"}`},
		{"array", `[{"id":7}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{bodies: map[string]string{"/api/stations/7": tt.bad}}
			c, store := newTestClient(t, api)
			ctx := context.Background()

			_, err := c.Station(ctx, 7)
			assert.ErrorIs(t, err, ErrDecode)
			_, ok := store.Get(c.StationsURL + "/7")
			assert.False(t, ok)

			api.set("/api/stations/7", `{"id":7,"name":"Porto"}`)
			s, err := c.Station(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, "Porto", s.Name)
			assert.Equal(t, 2, api.hits("/api/stations/7"))
		})
	}
}

func TestStation_UndecodableCacheEntryIsMiss(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{"/api/stations/7": `{"id":7,"name":"Porto"}`}}
	c, store := newTestClient(t, api)
	ctx := context.Background()

	// Valid JSON of the wrong shape already on disk.
	require.NoError(t, store.Set(c.StationsURL+"/7", map[string]any{"id": "seven", "address": "stale", "returns": []int{1}}))

	s, err := c.Station(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, s.ID)
	assert.Empty(t, s.Address)
	assert.Empty(t, s.Returns)
	assert.Equal(t, 1, api.hits("/api/stations/7"))

	// The live response replaced the bad entry.
	_, err = c.Station(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, api.hits("/api/stations/7"))
}

func TestTransferDates_EnvelopeCached(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{
		"/api/timeframes/1-2": `{"data":[{"startDate":"2025-01-01","endDate":"2025-01-08"}]}`,
	}}
	c, _ := newTestClient(t, api)

	for i := 0; i < 2; i++ {
		dates, err := c.TransferDates(context.Background(), 1, 2)
		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.Equal(t, "2025-01-08", dates[0].EndDate)
	}
	assert.Equal(t, 1, api.hits("/api/timeframes/1-2"))
}

func TestStation_CacheWriteFailureIsWarning(t *testing.T) {
	h := memory.New()
	log.SetHandler(h)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetHandler(discard.New())
	})

	api := &fakeAPI{bodies: map[string]string{"/api/stations/7": `{"id":7,"name":"Porto"}`}}
	c, _ := newTestClient(t, api)

	// A cache directory below a regular file can never be created.
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	c.Cache = cache.New(filepath.Join(file, "cache"), cache.DefaultTTL)

	s, err := c.Station(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Porto", s.Name)

	var warned bool
	for _, e := range h.Entries {
		if e.Level == log.WarnLevel && strings.Contains(e.Message, "failed to write cache") {
			warned = true
			assert.NotNil(t, e.Fields["error"])
		}
	}
	assert.True(t, warned, "expected a cache write warning")
}
