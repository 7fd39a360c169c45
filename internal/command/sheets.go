// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/bomctl/internal/config"
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/meta"
	"github.com/tfctl/bomctl/internal/output"
	"github.com/tfctl/bomctl/internal/workbook"
)

// sheetsCommandAction lists the sheets of one workbook with their row counts
// and columns, which helps choosing a key column.
func sheetsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "sheets") {
		return nil
	}

	config.Config.Namespace = "sheets"

	args := cmd.Args().Slice()
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one workbook, got %d", len(args))
	}

	wb, err := workbook.Open(ctx, args[0], workbookOptions(cmd)...)
	if err != nil {
		return err
	}

	return output.SpitSheets(args[0], workbook.Inspect(wb), output.OptionsFromCommand(cmd), stdout(cmd))
}

// sheetsCommandBuilder constructs the cli.Command for "sheets".
func sheetsCommandBuilder(meta meta.Meta) *cli.Command {
	flags := append([]cli.Flag{tldrFlag}, NewAWSFlags()...)
	for _, f := range NewGlobalFlags() {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "output" {
			sf.Validator = func(value string) error {
				return FlagValidators(value, OutputValidator, TextOnlyOutputValidator)
			}
		}
		flags = append(flags, f)
	}

	return &cli.Command{
		Name:      "sheets",
		Usage:     "list the sheets and columns of a workbook",
		UsageText: "bomctl sheets FILE.xlsx [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: sheetsCommandAction,
	}
}
