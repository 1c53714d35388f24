package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/vanrally/internal/i18n"
	"github.com/staranto/vanrally/internal/meta"
	"github.com/staranto/vanrally/internal/output"
)

// %[1]s is the language list, %[2]s the output formats.
const bashCompletionScript = `# bash completion for vanrally
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_vanrally()
{
    local cur prev
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    local common="--color -c --no-color --language -l --no-cache --output -o --help -h"

    case "$prev" in
        --language|-l)
            COMPREPLY=( $(compgen -W "%[1]s" -- "$cur") )
            return 0
            ;;
        --output|-o)
            COMPREPLY=( $(compgen -W "%[2]s" -- "$cur") )
            return 0
            ;;
        cache)
            COMPREPLY=( $(compgen -W "clear purge info" -- "$cur") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
    esac

    if [[ ${COMP_CWORD} -eq 1 && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -W "cache completion" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$common --version -v" -- "$cur") )
    return 0
}

complete -F _vanrally vanrally
`

const zshCompletionScript = `#compdef vanrally

_vanrally() {
  local -a cmds
  cmds=(
    'cache:manage the response cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '--no-color[disable colored text]'
  '(-l --language)'{-l,--language}'[output language]:language:(%[1]s)'
  '--no-cache[bypass the response cache]'
  '(-o --output)'{-o,--output}'[output format]:format:(%[2]s)'
  )

  case $words[2] in
    cache)
      _arguments -C $common '1: :((clear purge info))'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '--version[print version]' '1: :->cmds'
      [[ $state == cmds ]] && _describe -t commands 'vanrally commands' cmds
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _vanrally vanrally
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	langs := strings.Join(i18n.Languages(i18n.Source()), " ")
	formats := strings.Join(output.Formats, " ")

	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprintf(w, bashCompletionScript, langs, formats)
	case "zsh":
		fmt.Fprintf(w, zshCompletionScript, langs, formats)
	default:
		fmt.Fprintln(os.Stderr, "usage: vanrally completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "vanrally completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
