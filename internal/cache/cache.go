// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

const (
	// DefaultDir is used when neither VANRALLY_CACHE_DIR nor cache.dir is set.
	DefaultDir = ".cache"
	// DefaultTTL is the age after which an entry is no longer served.
	DefaultTTL = 24 * time.Hour

	fileExt = ".json"
)

// Store is a directory of JSON files, one per cached key. The file name is
// the MD5 of the clear-text key, so URLs never leak into the filesystem.
// A nil *Store behaves as a permanently empty cache.
type Store struct {
	Dir string
	TTL time.Duration
	// Now is overridable for tests.
	Now func() time.Time
}

// record is the on-disk layout of an entry.
type record struct {
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Entry describes a cache file for listing purposes.
type Entry struct {
	EncodedKey string
	Path       string
	StoredAt   time.Time
	Size       int64
	Expired    bool
}

// New returns a Store rooted at dir. A zero ttl selects DefaultTTL.
func New(dir string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{Dir: dir, TTL: ttl, Now: time.Now}
}

// Dir resolves the cache directory.
// Precedence:
//  1. VANRALLY_CACHE_DIR, if set and non-empty
//  2. configured (cache.dir from config.yaml), if non-empty
//  3. DefaultDir, relative to the working directory
func Dir(configured string) string {
	if c, ok := os.LookupEnv("VANRALLY_CACHE_DIR"); ok && c != "" {
		return c
	}
	if configured != "" {
		return configured
	}
	return DefaultDir
}

// Enabled returns true unless VANRALLY_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("VANRALLY_CACHE")
	enabled = strings.ToLower(enabled)
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EntryPath returns the path where the entry for the clear-text key would
// live. It also returns true if a file currently exists at that path.
func (s *Store) EntryPath(key string) (string, bool) {
	p := filepath.Join(s.Dir, encodeKey(key)+fileExt)
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p, true
	}
	return p, false
}

// Get returns the cached payload for key. Missing, unreadable, corrupt and
// expired entries all report false.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.EntryPath(key)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		log.Debugf("cache read failed for %s: %v", p, err)
		return nil, false
	}

	var rec record
	if err := json.Unmarshal(bytes.TrimSpace(b), &rec); err != nil {
		log.Debugf("cache entry %s is corrupt: %v", p, err)
		return nil, false
	}

	if s.expired(rec.Timestamp) {
		log.Debugf("cache entry %s expired", p)
		return nil, false
	}

	data := bytes.TrimSpace(rec.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, false
	}

	return data, true
}

// GetInto decodes the cached payload for key into v. A payload that does not
// decode into v is a miss.
func (s *Store) GetInto(key string, v any) bool {
	data, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Debugf("cache payload for %s does not decode: %v", key, err)
		return false
	}
	return true
}

// Set stores payload for key, creating the directory as needed. payload may be
// a json.RawMessage or any value encoding/json can marshal.
func (s *Store) Set(key string, payload any) error {
	if s == nil {
		return nil // treat as disabled.
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}

	b, err := json.Marshal(record{Timestamp: unixSeconds(s.now()), Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	p, _ := s.EntryPath(key)
	if err := os.WriteFile(p, b, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Clear removes the whole cache directory. Clearing a missing directory is
// not an error.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Purge removes expired and unreadable entries and returns how many files
// were removed.
func (s *Store) Purge() (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if !e.Expired {
			continue
		}
		if err := os.Remove(e.Path); err == nil {
			log.Debugf("removed cache file %s", e.Path)
			removed++
		} else {
			log.WithError(err).Warnf("failed to remove cache file %s", e.Path)
		}
	}
	return removed, nil
}

// Entries lists the cache files, oldest first. Files that cannot be parsed are
// reported as expired so Purge sweeps them too.
func (s *Store) Entries() ([]Entry, error) {
	if s == nil {
		return nil, nil
	}

	des, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var entries []Entry
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}

		e := Entry{
			EncodedKey: strings.TrimSuffix(de.Name(), fileExt),
			Path:       filepath.Join(s.Dir, de.Name()),
			Expired:    true,
		}
		if fi, err := de.Info(); err == nil {
			e.Size = fi.Size()
			e.StoredAt = fi.ModTime()
		}

		if b, err := os.ReadFile(e.Path); err == nil {
			var rec record
			if json.Unmarshal(b, &rec) == nil {
				e.StoredAt = fromUnixSeconds(rec.Timestamp)
				e.Expired = s.expired(rec.Timestamp)
			}
		}

		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StoredAt.Before(entries[j].StoredAt)
	})

	return entries, nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultTTL
	}
	return s.TTL
}

// expired reports whether an entry stored at ts (unix seconds) is past TTL.
func (s *Store) expired(ts float64) bool {
	return ts+s.ttl().Seconds() < unixSeconds(s.now())
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(ts float64) time.Time {
	return time.Unix(0, int64(ts*float64(time.Second)))
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
