// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/i18n"
)

// NewGlobalFlags returns the flags shared by the report and every
// subcommand. cfgSource is the path of the loaded config.yaml, used as a
// fallback value source.
func NewGlobalFlags(cfgSource string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("color", altsrc.StringSourcer(cfgSource)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Usage:   "output language",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VANRALLY_LANGUAGE"),
				yaml.YAML("language", altsrc.StringSourcer(cfgSource)),
			),
			Value: i18n.DefaultLanguage,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, LanguageValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "bypass the response cache for this run",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VANRALLY_NO_CACHE"),
			),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("output", altsrc.StringSourcer(cfgSource)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
	}

	return
}
