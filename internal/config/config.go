// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is looked up in the working directory unless VANRALLY_CFG or
	// an explicit path says otherwise.
	DefaultFile = "config.yaml"
	// ExampleFile is copied to DefaultFile's location when the latter is
	// missing.
	ExampleFile = "config.example.yaml"

	defaultReferer = "https://booking.roadsurfer.com"
)

var (
	ErrNoTemplate   = errors.New(ExampleFile + " not found. Cannot create default configuration")
	ErrInvalidYAML  = errors.New("invalid YAML")
	ErrRead         = errors.New("error reading configuration")
	ErrMissingField = errors.New("missing required field")
)

// requiredFields are checked in order, parents before children.
var requiredFields = []string{
	"api",
	"maps",
	"api.base_url",
	"api.endpoints",
	"api.endpoints.stations",
	"api.endpoints.timeframes",
	"maps.directions_url",
}

// apiLanguageCodes maps a UI language to the locale the booking API expects
// in Accept-Language. api.language_codes in the config file takes precedence.
var apiLanguageCodes = map[string]string{
	"de": "de-DE",
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"it": "it-IT",
	"nl": "nl-NL",
	"pt": "pt-PT",
}

// Type is a loaded and validated configuration file. It is built once by
// Load and handed to whatever needs it.
type Type struct {
	Source string
	Data   map[string]interface{}
}

// Load reads the configuration file. With no argument the path comes from
// VANRALLY_CFG, falling back to DefaultFile. A missing file is created from
// ExampleFile in the same directory.
func Load(cfgFilePath ...string) (Type, error) {
	path := getConfigPath(cfgFilePath...)

	if err := ensureConfigFile(path); err != nil {
		return Type{}, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, fmt.Errorf("%w %s: %v", ErrRead, path, err)
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("%w in %s: %v", ErrInvalidYAML, path, err)
	}

	cfg := Type{
		Source: path,
		Data:   data,
	}

	if err := cfg.Validate(); err != nil {
		return Type{}, err
	}

	log.Debugf("using config file: %s", path)
	return cfg, nil
}

// Validate checks that every required key is present.
func (cfg *Type) Validate() error {
	for _, key := range requiredFields {
		if _, err := cfg.get(key); err != nil {
			return fmt.Errorf("%w '%s' in configuration", ErrMissingField, key)
		}
	}
	return nil
}

// get traverses the map using a dotted key path
func (cfg *Type) get(kspec string) (any, error) {
	var current interface{} = cfg.Data

	for _, key := range strings.Split(kspec, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("no valid path found for: %s", kspec)
		}
		current, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("no valid path found for: %s", kspec)
		}
	}

	return current, nil
}

// GetString returns the string at the dotted key, or defaultValue if given and
// the key is absent.
func (cfg *Type) GetString(key string, defaultValue ...string) (string, error) {
	val, err := cfg.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}

	return s, nil
}

// GetInt returns the int at the dotted key, or defaultValue if given and the
// key is absent.
func (cfg *Type) GetInt(key string, defaultValue ...int) (int, error) {
	val, err := cfg.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

// GetStringMap returns the string-valued entries of the map at the dotted key.
// Non-string values are skipped.
func (cfg *Type) GetStringMap(key string) map[string]string {
	out := map[string]string{}
	val, err := cfg.get(key)
	if err != nil {
		return out
	}
	m, ok := val.(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// StationsURL is api.base_url joined with api.endpoints.stations.
func (cfg *Type) StationsURL() string {
	base, _ := cfg.GetString("api.base_url")
	endpoint, _ := cfg.GetString("api.endpoints.stations")
	return base + endpoint
}

// TimeframesURL is api.base_url joined with api.endpoints.timeframes.
func (cfg *Type) TimeframesURL() string {
	base, _ := cfg.GetString("api.base_url")
	endpoint, _ := cfg.GetString("api.endpoints.timeframes")
	return base + endpoint
}

func (cfg *Type) DirectionsURL() string {
	u, _ := cfg.GetString("maps.directions_url")
	return u
}

// Referer is the booking site root used to build the Referer header.
func (cfg *Type) Referer() string {
	r, _ := cfg.GetString("api.referer", defaultReferer)
	return strings.TrimRight(r, "/")
}

// APILanguageCode resolves the locale sent to the API for lang.
func (cfg *Type) APILanguageCode(lang string) string {
	if code, ok := cfg.GetStringMap("api.language_codes")[lang]; ok && code != "" {
		return code
	}
	if code, ok := apiLanguageCodes[lang]; ok {
		return code
	}
	return lang
}

func getConfigPath(cfgFilePath ...string) string {
	if len(cfgFilePath) > 0 && cfgFilePath[0] != "" {
		return cfgFilePath[0]
	}
	if p := os.Getenv("VANRALLY_CFG"); p != "" {
		return p
	}
	return DefaultFile
}

// ensureConfigFile copies the example file into place when path is missing.
func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	example := filepath.Join(filepath.Dir(path), ExampleFile)
	src, err := os.Open(example)
	if err != nil {
		return ErrNoTemplate
	}
	defer src.Close()

	fmt.Fprintf(os.Stderr, "Creating %s from %s...\n", path, example)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:mnd
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrRead, path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("%w %s: %v", ErrRead, path, err)
	}
	return nil
}
