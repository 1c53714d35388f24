// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rally

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/vanrally/internal/cache"
	"github.com/staranto/vanrally/internal/config"
)

// Values for the X-Requested-Alias header, one per logical operation.
const (
	AliasStartStations = "rally.startStations"
	AliasFetchRoutes   = "rally.fetchRoutes"
	AliasTimeframes    = "rally.timeframes"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrInvalidJSON = errors.New("response is not valid JSON")
	ErrDecode      = errors.New("response does not match the expected shape")
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP Error: %d (%s)", e.Code, e.URL)
}

// Client issues the three rally GETs. Station detail and transfer dates go
// through Cache; the station list never does.
type Client struct {
	HTTP          *http.Client
	Cache         *cache.Store
	StationsURL   string
	TimeframesURL string
	Language      string
	LanguageCode  string
	Referer       string
}

// NewClient builds a Client from a loaded configuration. store may be nil to
// disable caching, httpClient may be nil to get one with the configured
// timeout.
func NewClient(cfg *config.Type, store *cache.Store, lang string, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := DefaultTimeout
		if secs, _ := cfg.GetInt("http.timeout", 0); secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		HTTP:          httpClient,
		Cache:         store,
		StationsURL:   cfg.StationsURL(),
		TimeframesURL: cfg.TimeframesURL(),
		Language:      lang,
		LanguageCode:  cfg.APILanguageCode(lang),
		Referer:       cfg.Referer(),
	}
}

// Headers returns the fixed header set plus the operation marker.
func (c *Client) Headers(alias string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", fmt.Sprintf("%s,%s;q=0.7", c.LanguageCode, c.Language))
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Pragma", "no-cache")
	h.Set("Referer", fmt.Sprintf("%s/%s/rally?currency=EUR", c.Referer, c.Language))
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("X-Requested-Alias", alias)
	return h
}

// Stations returns every station in the rally program. Always live.
func (c *Client) Stations(ctx context.Context) ([]Station, error) {
	var stations []Station
	if err := c.fetch(ctx, c.StationsURL, AliasStartStations, false, &stations); err != nil {
		return nil, fmt.Errorf("failed to obtain station list: %w", err)
	}
	return stations, nil
}

// Station returns the detail record for one station, including its Returns.
func (c *Client) Station(ctx context.Context, id int) (*Station, error) {
	var station Station
	url := c.StationsURL + "/" + strconv.Itoa(id)
	if err := c.fetch(ctx, url, AliasFetchRoutes, true, &station); err != nil {
		return nil, fmt.Errorf("failed to obtain station %d: %w", id, err)
	}
	return &station, nil
}

// TransferDates returns the windows available for moving a van from origin
// to destination.
func (c *Client) TransferDates(ctx context.Context, origin, destination int) ([]DateRange, error) {
	var dates []DateRange
	url := fmt.Sprintf("%s/%d-%d", c.TimeframesURL, origin, destination)
	if err := c.fetch(ctx, url, AliasTimeframes, true, &dates); err != nil {
		return nil, fmt.Errorf("failed to obtain transfer dates %d-%d: %w", origin, destination, err)
	}
	return dates, nil
}

// fetch decodes the document at url into v. With useCache a cached payload
// that decodes into v short-circuits the request, and only a response that
// decodes is written back. Cache write failures are logged and otherwise
// ignored.
func (c *Client) fetch(ctx context.Context, url string, alias string, useCache bool, v any) error {
	if useCache && c.Cache.GetInto(url, v) {
		log.Debugf("cache hit: %s", url)
		return nil
	}

	body, err := c.hit(ctx, url, alias)
	if err != nil {
		return err
	}

	// A rejected cache payload may have partially filled v.
	reflect.ValueOf(v).Elem().SetZero()

	body = unwrapList(body)
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, url, err)
	}

	if useCache {
		if err := c.Cache.Set(url, json.RawMessage(body)); err != nil {
			log.WithError(err).Warnf("failed to write cache for %s", url)
		}
	}

	return nil
}

// hit GETs url and returns the body once it is known to be JSON.
func (c *Client) hit(ctx context.Context, url string, alias string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.Headers(alias)

	log.Debugf("GET %s [%s]", url, alias)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	body := bytes.TrimSpace(doc.Bytes())
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w", url, ErrInvalidJSON)
	}

	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// unwrapList returns the "data" member of an object whose "data" is an array,
// and doc unchanged otherwise.
func unwrapList(doc []byte) []byte {
	r := gjson.ParseBytes(doc)
	if r.IsObject() {
		if data := r.Get("data"); data.IsArray() {
			return []byte(data.Raw)
		}
	}
	return doc
}
