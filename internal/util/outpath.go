// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extension is appended to output files that lack it.
const Extension = ".xlsx"

// TimestampLayout formats the time portion of generated output names.
const TimestampLayout = "2006-01-02_15_04_05"

// ParseOutDir resolves dir to an absolute directory. An empty dir is the
// CWD. It returns an error if the fs entry does not exist or is not a
// directory.
func ParseOutDir(dir string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	switch {
	case dir == "":
		dir = cwd
	case !filepath.IsAbs(dir):
		dir = filepath.Join(cwd, dir)
	}

	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return dir, nil
}

// TimestampedName returns the default output file name for t, e.g.
// output_2024-05-01_13_45_09.xlsx.
func TimestampedName(t time.Time) string {
	return "output_" + t.Format(TimestampLayout) + Extension
}

// OutputPath decides where the comparison workbook is written. An explicit
// file wins and is placed under dir when relative; otherwise a timestamped
// name is used inside dir.
func OutputPath(dir, file string, now time.Time) (string, error) {
	if file == "" {
		d, err := ParseOutDir(dir)
		if err != nil {
			return "", err
		}
		return filepath.Join(d, TimestampedName(now)), nil
	}

	if !strings.EqualFold(filepath.Ext(file), Extension) {
		file += Extension
	}
	if filepath.IsAbs(file) {
		if _, err := ParseOutDir(filepath.Dir(file)); err != nil {
			return "", err
		}
		return file, nil
	}

	d, err := ParseOutDir(dir)
	if err != nil {
		return "", err
	}
	p := filepath.Join(d, file)
	if _, err := ParseOutDir(filepath.Dir(p)); err != nil {
		return "", err
	}
	return p, nil
}
