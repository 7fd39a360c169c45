// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tfctl/bomctl/internal/log"
)

const (
	// EnvDir overrides the cache base directory.
	EnvDir = "BOMCTL_CACHE_DIR"
	// EnvEnabled disables caching when set to "0" or "false".
	EnvEnabled = "BOMCTL_CACHE"
)

// SnapshotDir is the subdirectory holding report snapshots.
var SnapshotDir = []string{"snapshots"}

// Entry is a cached artifact on disk. Key is the clear-text key and
// EncodedKey the hashed file name.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	ModTime    time.Time
	Data       []byte
}

// Dir resolves the base cache directory: BOMCTL_CACHE_DIR when set, else
// os.UserCacheDir()/bomctl. Returns ("", false) when neither resolves.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv(EnvDir); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "bomctl"), true
	}
	return "", false
}

// Enabled returns true unless BOMCTL_CACHE is "0" or "false".
func Enabled() bool {
	v := strings.ToLower(os.Getenv(EnvEnabled))
	return v != "0" && v != "false"
}

// EnsureBaseDir creates the base cache directory when caching is enabled.
// It returns the path and whether it is usable.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// EntryPath returns where the entry for clearKey lives under subdirs and
// whether a file exists there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append(append([]string{base}, subdirs...), encodeKey(clearKey))...)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, true
	}
	return p, false
}

// Purge removes cache files older than hours. hours <= 0 disables it.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache purge disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		log.Debugf("removed cache file %s", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read returns the cached entry for clearKey, if any.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		ModTime:    info.ModTime(),
		Data:       bytes.TrimSpace(b),
	}, true
}

// Write stores data for clearKey beneath subdirs. The file is replaced
// atomically so a concurrent Read never sees a partial snapshot.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, encodeKey(clearKey))); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// SnapshotKey is the clear-text key of the snapshot for one comparison.
// Inputs are identified by the sources as given and the key column.
func SnapshotKey(oldSrc, newSrc, key string) string {
	return strings.Join([]string{oldSrc, newSrc, key}, "|")
}

// ReadSnapshot returns the previous report snapshot for the comparison.
func ReadSnapshot(oldSrc, newSrc, key string) (*Entry, bool) {
	return Read(SnapshotDir, SnapshotKey(oldSrc, newSrc, key))
}

// WriteSnapshot stores the report snapshot for the comparison.
func WriteSnapshot(oldSrc, newSrc, key string, data []byte) error {
	return Write(SnapshotDir, SnapshotKey(oldSrc, newSrc, key), data)
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
