// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/bomctl/internal/cacheutil"
	"github.com/tfctl/bomctl/internal/config"
	"github.com/tfctl/bomctl/internal/differ"
	"github.com/tfctl/bomctl/internal/engine"
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/meta"
	"github.com/tfctl/bomctl/internal/output"
	"github.com/tfctl/bomctl/internal/picker"
	"github.com/tfctl/bomctl/internal/util"
	"github.com/tfctl/bomctl/internal/workbook"
)

// ErrNotInteractive is returned for --pick without a terminal.
var ErrNotInteractive = errors.New("--pick needs an interactive terminal")

// defaultCacheHours is the snapshot retention when cache.hours is unset.
const defaultCacheHours = 168

// now is swapped in tests to get stable output names.
var now = time.Now

// pickKey is swapped in tests to avoid a terminal.
var pickKey = func(columns []string, initial string) (string, error) {
	if !picker.Interactive(os.Stdin, os.Stderr) {
		return "", ErrNotInteractive
	}
	return picker.Run(columns, initial, os.Stdin, os.Stderr)
}

// compareCommandAction is the action handler for the "compare" subcommand. It
// reads both workbooks, runs the engine and renders the report either as a
// highlighted xlsx workbook or through the common output routine.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "compare") {
		return nil
	}

	config.Config.Namespace = "compare"

	args := cmd.Args().Slice()
	if err := SourcesValidator(args); err != nil {
		return err
	}

	old, new, err := openPair(ctx, args[0], args[1], workbookOptions(cmd)...)
	if err != nil {
		return err
	}

	if !cmd.Bool("allow-sheet-mismatch") {
		if err := engine.ValidatePair(old, new); err != nil {
			return fmt.Errorf("%w (use --allow-sheet-mismatch to compare the common sheets)", err)
		}
	}

	key := strings.TrimSpace(cmd.String("key"))
	if key == "" {
		key = DefaultKey
	}
	if cmd.Bool("pick") {
		if key, err = pickKey(picker.Candidates(old, new), key); err != nil {
			return err
		}
	}
	log.Debugf("key column: %s", key)
	if !workbook.HasColumn(old, key) && !workbook.HasColumn(new, key) {
		log.Warnf("key column %q not found in %s or %s", key, args[0], args[1])
	}

	rep, err := engine.Compare(ctx, old, new, engine.Options{
		Key:         key,
		Parallelism: cmd.Int("parallel"),
	})
	if err != nil {
		return err
	}

	if err := emit(cmd, rep); err != nil {
		return err
	}

	return snapshot(cmd, rep, sourceID(args[0]), sourceID(args[1]))
}

// emit writes rep in the requested format.
func emit(cmd *cli.Command, rep *engine.Report) error {
	w := stdout(cmd)

	if cmd.String("output") != "xlsx" {
		return output.SliceDiceSpit(rep, output.OptionsFromCommand(cmd), w)
	}

	dir := cmd.String("out-dir")
	if dir == "" {
		dir = GetMeta(cmd).StartingDir
	}
	path, err := util.OutputPath(dir, cmd.String("out-file"), now())
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	if err := workbook.Write(path, rep, workbookPalette()); err != nil {
		return err
	}

	for _, warning := range rep.Warnings() {
		fmt.Fprintln(stderr(cmd), "warning: "+warning)
	}
	fmt.Fprintln(w, StatusMessage(rep, path))
	return nil
}

// StatusMessage is the one line summary printed after an xlsx comparison.
func StatusMessage(rep *engine.Report, path string) string {
	if rep.Degraded() {
		return fmt.Sprintf("Inputted UID %s was not found in files. Possible faulty output: %s", rep.Key, path)
	}
	return fmt.Sprintf("Comparison complete. Output file saved as %s", path)
}

// snapshot stores the JSON rendering of rep and, with --delta, shows how it
// changed since the previous run of the same comparison.
func snapshot(cmd *cli.Command, rep *engine.Report, oldID, newID string) error {
	enabled, _ := config.GetBool("snapshot", true)
	if cmd.Bool("no-snapshot") || !enabled || !cacheutil.Enabled() {
		if cmd.Bool("delta") {
			log.Warnf("snapshots are disabled; --delta ignored")
		}
		return nil
	}

	hours, _ := config.GetInt("cache.hours", defaultCacheHours)
	if err := cacheutil.Purge(hours); err != nil {
		log.WithError(err).Warnf("snapshot purge failed")
	}

	doc, err := output.Snapshot(rep)
	if err != nil {
		return err
	}

	if cmd.Bool("delta") {
		var w io.Writer = stdout(cmd)
		if f := cmd.String("output"); f == "json" || f == "yaml" {
			w = stderr(cmd)
		}

		if prev, ok := cacheutil.ReadSnapshot(oldID, newID, rep.Key); ok {
			fmt.Fprintf(w, "\nChanges since %s:\n", prev.ModTime.Local().Format(time.DateTime))
			if _, err := differ.Delta(prev.Data, doc, cmd.Bool("color"), w); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(w, "\nNo previous snapshot for this comparison.")
		}
	}

	if err := cacheutil.WriteSnapshot(oldID, newID, rep.Key, doc); err != nil {
		log.WithError(err).Warnf("snapshot not saved")
	}
	return nil
}

// compareCommandBuilder constructs the cli.Command for "compare", wiring
// metadata, flags, and action/validator handlers.
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "compare two BOM workbooks",
		UsageText: "bomctl compare OLD.xlsx NEW.xlsx [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "allow-sheet-mismatch",
				Usage: "compare the common sheets when the sheet counts differ",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "delta",
				Usage: "show changes since the previous run of this comparison",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "no-snapshot",
				Usage: "do not store a snapshot of this comparison",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory for xlsx output",
			},
			&cli.StringFlag{
				Name:  "out-file",
				Usage: "file for xlsx output. Defaults to a timestamped name",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "number of sheets compared at once",
				Value: 0,
				Validator: func(v int) error {
					if v < 0 {
						return fmt.Errorf("must not be negative")
					}
					return nil
				},
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "choose the key column interactively",
				Value: false,
			},
			NewKeyFlag("compare", meta.Config.Source),
			tldrFlag,
		}, NewAWSFlags()...), NewGlobalFlags("compare", meta.Config.Source)...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: compareCommandAction,
	}
}
