// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/bomctl/internal/workbook"
)

// ErrNeedTwoWorkbooks is returned when compare is not given exactly two .xlsx
// sources.
var ErrNeedTwoWorkbooks = errors.New("Please select 2 xlsx files.") //nolint:staticcheck

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Int("padding") < 0 {
		return fmt.Errorf("--padding must not be negative")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "yaml", "xlsx"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// TextOnlyOutputValidator rejects xlsx, which only compare can produce.
func TextOnlyOutputValidator(value any) error {
	if value == "xlsx" {
		return fmt.Errorf("xlsx output is only available for compare")
	}
	return nil
}

// SourcesValidator checks that exactly two workbook sources were given.
func SourcesValidator(args []string) error {
	if len(args) != 2 {
		return ErrNeedTwoWorkbooks
	}
	for _, a := range args {
		if !workbook.IsWorkbook(a) {
			return ErrNeedTwoWorkbooks
		}
	}
	return nil
}
