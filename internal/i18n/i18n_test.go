// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package i18n

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog routes apex/log into memory for the duration of the test.
func captureLog(t *testing.T) *memory.Handler {
	t.Helper()
	h := memory.New()
	log.SetHandler(h)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetHandler(discard.New())
	})
	return h
}

func TestLoad_Bundled(t *testing.T) {
	t.Setenv("VANRALLY_TRANSLATIONS_DIR", "")

	tests := []struct {
		lang string
		want string
	}{
		{lang: "en", want: "Showing found routes"},
		{lang: "es", want: "Mostrando rutas encontradas"},
		{lang: "", want: "Showing found routes"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			tr := Load(tt.lang)
			assert.Equal(t, tt.want, tr.Get("found_routes"))
			assert.NotEqual(t, "origin", tr.Get("origin"))
		})
	}
}

func TestLoad_UnknownLanguageFallsBack(t *testing.T) {
	t.Setenv("VANRALLY_TRANSLATIONS_DIR", "")
	h := captureLog(t)

	tr := Load("xx")
	assert.Equal(t, DefaultLanguage, tr.Language)
	assert.Equal(t, "Showing found routes", tr.Get("found_routes"))

	require.Len(t, h.Entries, 1)
	assert.Equal(t, log.WarnLevel, h.Entries[0].Level)
	assert.Contains(t, h.Entries[0].Message, "Translation file for 'xx' not found")
	assert.Contains(t, h.Entries[0].Message, "Falling back to en")
}

func TestGet_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json": {Data: []byte(`{"found_routes": "Showing found routes", "origin": "Origin", "destination": "Destination"}`)},
		"es.json": {Data: []byte(`{"found_routes": "Mostrando rutas encontradas"}`)},
	}

	tr := LoadFS(fsys, "es")
	assert.Equal(t, "es", tr.Language)
	assert.Equal(t, "Mostrando rutas encontradas", tr.Get("found_routes"))
	assert.Equal(t, "Origin", tr.Get("origin"))
	assert.Equal(t, "nonexistent_key", tr.Get("nonexistent_key"))
}

func TestLoadFS_NoDefault(t *testing.T) {
	h := captureLog(t)

	tr := LoadFS(fstest.MapFS{}, "en")
	assert.Equal(t, "found_routes", tr.Get("found_routes"))
	require.Len(t, h.Entries, 1)
	assert.Equal(t, log.ErrorLevel, h.Entries[0].Level)
}

func TestLoadFS_CorruptTableFallsBack(t *testing.T) {
	captureLog(t)
	fsys := fstest.MapFS{
		"en.json": {Data: []byte(`{"origin": "Origin"}`)},
		"es.json": {Data: []byte(`{"origin": `)},
	}

	tr := LoadFS(fsys, "es")
	assert.Equal(t, DefaultLanguage, tr.Language)
	assert.Equal(t, "Origin", tr.Get("origin"))
}

func TestNilTable(t *testing.T) {
	var tr *Table
	assert.Equal(t, "origin", tr.Get("origin"))
}

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"origin": "From"}`), 0o600))
	t.Setenv("VANRALLY_TRANSLATIONS_DIR", dir)
	captureLog(t)

	tr := Load("en")
	assert.Equal(t, "From", tr.Get("origin"))
	assert.Equal(t, "found_routes", tr.Get("found_routes"))
	assert.Equal(t, []string{"en"}, Languages(Source()))
}

func TestLanguages(t *testing.T) {
	t.Setenv("VANRALLY_TRANSLATIONS_DIR", "")
	langs := Languages(Source())
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "es")
	assert.IsNonDecreasing(t, langs)
}
