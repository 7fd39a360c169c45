// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package table holds the in-memory workbook model shared by the aligner,
// differ and engine: scalar values, records, tables, sheets and workbooks.
package table
