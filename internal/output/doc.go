// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders comparison reports as text tables, JSON or YAML
// after applying the --attrs, --filter and --sort options.
package output
