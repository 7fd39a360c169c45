// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package workbook reads BOM workbooks into tables and writes highlighted
// comparison reports back out as xlsx.
package workbook
