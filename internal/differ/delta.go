// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// volatileKeys are top-level snapshot keys that differ on every run and are
// dropped before comparison.
var volatileKeys = []string{"run_id", "created"}

// Delta compares two JSON report snapshots and writes an ASCII delta of prev
// versus curr to w. It returns true when the snapshots differ.
func Delta(prev, curr []byte, coloring bool, w io.Writer) (bool, error) {
	log.Debugf(">> Delta()")

	if w == nil {
		w = os.Stdout
	}

	if len(prev) == 0 || len(curr) == 0 {
		return false, nil
	}

	log.Debugf("len(snapshots): %d %d", len(prev), len(curr))

	prev, err := stripVolatile(prev)
	if err != nil {
		return false, fmt.Errorf("failed to read previous snapshot: %w", err)
	}
	curr, err = stripVolatile(curr)
	if err != nil {
		return false, fmt.Errorf("failed to read current snapshot: %w", err)
	}

	delta, err := gojsondiff.New().Compare(prev, curr)
	if err != nil {
		return false, fmt.Errorf("failed to compare snapshots: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The reports are identical.")
		return false, nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(prev, &jdoc); err != nil {
		return true, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	}

	out, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return true, err
	}

	fmt.Fprintln(w, out)
	return true, nil
}

func stripVolatile(doc []byte) ([]byte, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	for _, k := range volatileKeys {
		delete(m, k)
	}
	return json.Marshal(m)
}
