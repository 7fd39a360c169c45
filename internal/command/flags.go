// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// DefaultKey is the key column used when none is given or the given one is
// blank.
const DefaultKey = "LibRef"

var (
	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewGlobalFlags returns the presentation flags shared by every command.
// params[0] is the command namespace and params[1] the config file; when both
// are given, --output may also come from the config.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	if len(params) == 2 && params[1] != "" {
		output = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], output)
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		output,
		&cli.IntFlag{
			Name:  "padding",
			Usage: "padding between text columns",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewKeyFlag constructs the --key flag. The value comes from the flag, then
// BOMCTL_KEY, then the namespaced and global config keys, then DefaultKey.
func NewKeyFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "identifier column used to pair changed rows",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("BOMCTL_KEY"),
		),
		Value: DefaultKey,
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewAWSFlags returns the flags used to reach s3:// sources.
func NewAWSFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region for s3:// sources",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BOMCTL_REGION"),
			),
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile for s3:// sources",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BOMCTL_PROFILE"),
			),
		},
		&cli.StringFlag{
			Name:   "endpoint",
			Usage:  "S3 endpoint override, e.g. for MinIO or LocalStack",
			Hidden: true,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BOMCTL_S3_ENDPOINT"),
			),
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given executable is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
