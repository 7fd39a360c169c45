// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ pairs the rows left over by the aligner, compares them field
// by field and renders each change as "old ---> new". It also renders deltas
// between two saved report snapshots.
package differ
