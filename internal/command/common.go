// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tfctl/bomctl/internal/aws"
	"github.com/tfctl/bomctl/internal/config"
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/meta"
	"github.com/tfctl/bomctl/internal/table"
	"github.com/tfctl/bomctl/internal/workbook"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr bomctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "bomctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// stdout returns the writer of the root command, falling back to os.Stdout.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// stderr returns the error writer of the root command, falling back to
// os.Stderr.
func stderr(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}

// workbookOptions turns the AWS flags into workbook.Open options.
func workbookOptions(cmd *cli.Command) []workbook.Option {
	var opts []aws.Option
	if r := cmd.String("region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if e := cmd.String("endpoint"); e != "" {
		opts = append(opts, aws.WithEndpoint(e))
	}
	if len(opts) == 0 {
		return nil
	}
	return []workbook.Option{workbook.WithAWS(opts...)}
}

// openPair reads both workbooks concurrently.
func openPair(ctx context.Context, oldSrc, newSrc string, opts ...workbook.Option) (old, new table.Workbook, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		old, err = workbook.Open(gctx, oldSrc, opts...)
		return
	})
	g.Go(func() (err error) {
		new, err = workbook.Open(gctx, newSrc, opts...)
		return
	})
	if err = g.Wait(); err != nil {
		return table.Workbook{}, table.Workbook{}, err
	}
	log.Debugf("opened %s (%d sheets) and %s (%d sheets)", oldSrc, len(old.Sheets), newSrc, len(new.Sheets))
	return old, new, nil
}

// sourceID identifies a source for snapshot keys. Local paths are made
// absolute so the same files match from any directory.
func sourceID(src string) string {
	if aws.IsURI(src) {
		return src
	}
	if abs, err := filepath.Abs(src); err == nil {
		return abs
	}
	return src
}

// workbookPalette resolves the xlsx highlight fills from config.
func workbookPalette() workbook.Palette {
	p := workbook.DefaultPalette
	p.Modified, _ = config.GetString("colors.fill.modified", p.Modified)
	p.Removed, _ = config.GetString("colors.fill.removed", p.Removed)
	p.Added, _ = config.GetString("colors.fill.added", p.Added)
	return p
}
