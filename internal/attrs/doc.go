// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package attrs selects, retitles and transforms the columns shown for a
// comparison report.
package attrs
