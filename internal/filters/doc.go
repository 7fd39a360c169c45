// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows the rows of a comparison report.
//
// A filter is key, operator and target. Several filters are joined with ","
// (or BOMCTL_FILTER_DELIM) and a row must satisfy all of them. Keys are report
// columns, matched on title or column name, plus the pseudo columns status
// and changed.
//
//   - = : exact match
//   - ~ : case insensitive match
//   - ^ : prefix
//   - @ : substring, or membership for the changed list
//   - / : regular expression
//   - < and > : numeric when both sides are numbers, else lexical
//
// Any operator may be negated with a leading !, as in status!=Modified. A
// bare key keeps rows where that column is not empty.
//
// Examples:
//
//   - "status=Added"
//   - "LibRef^RES"
//   - "changed@Qty"
//   - "Description/(?i)capacitor"
package filters
