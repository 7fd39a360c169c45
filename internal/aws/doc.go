// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS configuration and downloads workbooks addressed as
// s3://bucket/key.
package aws
