// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/bomctl/internal/meta"
)

const bashCompletionScript = `# bash completion for bomctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_bomctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "compare sheets completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --padding --sort -s --titles -t --tldr --region --profile"

    case "$cmd" in
        compare)
            local opts="$common --key -k --pick --out-dir --out-file --delta --no-snapshot --allow-sheet-mismatch --parallel"
            ;;
        sheets)
            local opts="$common"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml xlsx" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--out-dir" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise we're on a workbook positional
    COMPREPLY=( $(compgen -f -X '!*.xlsx' -- "$cur") $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _bomctl bomctl
`

const zshCompletionScript = `#compdef bomctl

_bomctl() {
  local -a cmds
  cmds=(
    'compare:compare two BOM workbooks'
    'sheets:list the sheets and columns of a workbook'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml xlsx)'
  '--padding[padding between text columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'bomctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    compare)
      _arguments -C \
        $common \
        '(-k --key)'{-k,--key}'[key column]:key' \
        '--pick[choose the key column interactively]' \
        '--out-dir[directory for xlsx output]:dir:_directories' \
        '--out-file[file for xlsx output]:file:_files' \
        '--delta[show changes since the previous run]' \
        '--no-snapshot[do not store a snapshot]' \
        '--allow-sheet-mismatch[compare the common sheets]' \
        '--parallel[sheets compared at once]:parallel' \
        '1:old workbook:_files -g "*.xlsx"' \
        '2:new workbook:_files -g "*.xlsx"'
      ;;
    sheets)
      _arguments -C \
        $common \
        '1:workbook:_files -g "*.xlsx"'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:workbook:_files -g "*.xlsx"'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _bomctl bomctl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(stderr(cmd), "usage: bomctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "bomctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
