// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for bomctl's user
// configuration. The configuration is a YAML document named by
// BOMCTL_CFG_FILE or located in the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/bomctl.yaml or $HOME/.config/bomctl.yaml
//   - macOS: $HOME/Library/Application Support/bomctl.yaml
//   - Windows: %APPDATA%/bomctl.yaml
//
// A typical file:
//
//	compare:
//	  key: LibRef
//	  output: xlsx
//	  out-dir: ~/boms/diffs
//	colors:
//	  modified: "#FFD700"
//	  removed: "#FA8072"
//	  added: "#3CB371"
//	cache:
//	  hours: 168
package config
