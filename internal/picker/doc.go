// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package picker is a small terminal UI for choosing the key column from the
// columns found in the compared workbooks.
package picker
