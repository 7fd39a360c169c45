// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/bomctl/internal/cacheutil"
	"github.com/tfctl/bomctl/internal/command"
	"github.com/tfctl/bomctl/internal/config"
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/version"
)

var ctx = context.Background()

// boolFlags never take a separate value token.
var boolFlags = map[string]bool{
	"allow-sheet-mismatch": true,
	"c":                    true,
	"color":                true,
	"delta":                true,
	"h":                    true,
	"help":                 true,
	"no-snapshot":          true,
	"pick":                 true,
	"t":                    true,
	"titles":               true,
	"tldr":                 true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = deduplicateFlags(args)
		log.Debugf("args after dedup: args=%v", args)
		return args
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands a config argument set. An explicit @set argument is
// replaced in place by <command>.<set>; without one, <command>.defaults is
// inserted right after the command so that explicit flags win.
func processSetOnly(args []string) []string {
	if len(args) < 2 {
		return args
	}

	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}

	insertIdx := idx
	if removeIdx != -1 {
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		insertIdx = removeIdx
	}

	entries, _ := config.GetStringSlice(args[1] + "." + set)
	return injectConfigSet(args, entries, insertIdx)
}

// injectConfigSet splits each entry on whitespace and inserts the fields at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags keeps only the last occurrence of each flag after the
// command, together with its value. Positional arguments are kept in place.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		g := group{name: strings.TrimLeft(a, "-"), tokens: []string{a}}
		if k, _, ok := strings.Cut(g.name, "="); ok {
			g.name = k
		} else if !boolFlags[g.name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			g.tokens = append(g.tokens, args[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}
