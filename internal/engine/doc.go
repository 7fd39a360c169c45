// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package engine compares two workbooks sheet by sheet and collects the
// per-sheet diffs, degraded flags and warnings into a Report.
package engine
