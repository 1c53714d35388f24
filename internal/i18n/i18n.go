// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/apex/log"
)

// DefaultLanguage is used when the requested language has no table, and as
// the source of keys missing from the requested table.
const DefaultLanguage = "en"

//go:embed translations/*.json
var bundled embed.FS

// Table resolves translation keys for one language.
type Table struct {
	Language string
	strings  map[string]string
	fallback map[string]string
}

// Load returns the table for lang. Tables are read from the directory named by
// VANRALLY_TRANSLATIONS_DIR when set, otherwise from the bundled set.
func Load(lang string) *Table {
	return LoadFS(Source(), lang)
}

// Source returns the filesystem translations are read from.
func Source() fs.FS {
	if dir := os.Getenv("VANRALLY_TRANSLATIONS_DIR"); dir != "" {
		return os.DirFS(dir)
	}
	sub, _ := fs.Sub(bundled, "translations")
	return sub
}

// LoadFS is Load against an arbitrary filesystem holding <lang>.json files.
func LoadFS(fsys fs.FS, lang string) *Table {
	if lang == "" {
		lang = DefaultLanguage
	}
	t := &Table{Language: lang}

	m, err := readTable(fsys, lang)
	if err != nil {
		if lang != DefaultLanguage {
			log.Warnf("Translation file for '%s' not found. Falling back to %s.", lang, DefaultLanguage)
		}
		t.Language = DefaultLanguage
		if m, err = readTable(fsys, DefaultLanguage); err != nil {
			log.Errorf("Default translation file '%s.json' not found.", DefaultLanguage)
			return t
		}
		t.strings = m
		return t
	}
	t.strings = m

	if lang != DefaultLanguage {
		if fb, err := readTable(fsys, DefaultLanguage); err == nil {
			t.fallback = fb
		}
	}

	return t
}

// Get returns the translation for key, falling back to the default language
// and then to the key itself.
func (t *Table) Get(key string) string {
	if t == nil {
		return key
	}
	if s, ok := t.strings[key]; ok {
		return s
	}
	if s, ok := t.fallback[key]; ok {
		return s
	}
	return key
}

// Languages lists the language codes available in fsys, sorted.
func Languages(fsys fs.FS) []string {
	matches, _ := fs.Glob(fsys, "*.json")
	langs := make([]string, 0, len(matches))
	for _, m := range matches {
		langs = append(langs, strings.TrimSuffix(path.Base(m), ".json"))
	}
	sort.Strings(langs)
	return langs
}

func readTable(fsys fs.FS, lang string) (map[string]string, error) {
	b, err := fs.ReadFile(fsys, lang+".json")
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s.json: %w", lang, err)
	}
	return m, nil
}
