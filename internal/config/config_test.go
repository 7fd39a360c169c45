// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig points BOMCTL_CFG_FILE at a testdata file, loads it and runs fn.
func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testFile))
	require.NoError(t, err)
	t.Setenv(EnvFile, absPath)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "us-east-1", cfg.Data["region"])
				assert.Equal(t, "LibRef", cfg.Data["key"])
			},
		},
		{
			name:     "nested",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				cmp, ok := cfg.Data["compare"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "Designator", cmp["key"])
			},
		},
		{
			name:     "empty",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			absPath, err := filepath.Abs(filepath.Join("testdata", tt.testFile))
			require.NoError(t, err)
			t.Setenv(EnvFile, absPath)
			Config = Type{}
			defer func() { Config = Type{} }()

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, absPath, cfg.Source)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/bomctl.yaml")
	defer func() { Config = Type{} }()

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", cfg.Data["bucket"])
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv(EnvFile, "/nonexistent/path/bomctl.yaml")
		_, err := Load()
		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("directory", func(t *testing.T) {
		t.Setenv(EnvFile, t.TempDir())
		_, err := Load()
		assert.ErrorContains(t, err, "points to a directory")
	})

	t.Run("no file anywhere", func(t *testing.T) {
		t.Setenv(EnvFile, "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())
		_, err := Load()
		assert.ErrorIs(t, err, ErrNoFile)
	})
}

func TestGetString(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		tests := []struct {
			name    string
			key     string
			def     []string
			want    string
			wantErr bool
		}{
			{name: "nested", key: "compare.key", want: "Designator"},
			{name: "int formatted", key: "compare.parallel", want: "4"},
			{name: "default used", key: "compare.nope", def: []string{"LibRef"}, want: "LibRef"},
			{name: "missing", key: "compare.nope", wantErr: true},
			{name: "not a scalar", key: "compare.attrs", wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := GetString(tt.key, tt.def...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestGetInt(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		tests := []struct {
			name    string
			key     string
			def     []int
			want    int
			wantErr bool
		}{
			{name: "int", key: "count", want: 42},
			{name: "float truncates", key: "ratio", want: 1},
			{name: "large", key: "big", want: 9000000000},
			{name: "numeric string", key: "numeric_string", want: 12},
			{name: "default", key: "nope", def: []int{168}, want: 168},
			{name: "null value uses default", key: "empty", def: []int{7}, want: 7},
			{name: "not an int", key: "label", wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := GetInt(tt.key, tt.def...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestGetBool(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		got, err := GetBool("compare.snapshot")
		require.NoError(t, err)
		assert.False(t, got)

		_, err = GetBool("compare.pick")
		assert.Error(t, err, "\"yes\" is not a ParseBool value")

		got, err = GetBool("compare.delta", true)
		require.NoError(t, err)
		assert.True(t, got)

		_, err = GetBool("compare.key")
		assert.Error(t, err)
	})
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		got, err := GetStringSlice("list")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)

		got, err = GetStringSlice("label")
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, got)

		_, err = GetStringSlice("mixed_list")
		assert.Error(t, err)

		got, err = GetStringSlice("nope", []string{"x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, got)
	})
}

func TestNamespace(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		Config.Namespace = "acme"

		got, err := GetString("compare.key")
		require.NoError(t, err)
		assert.Equal(t, "PartNo", got, "namespaced key wins")

		got, err = GetString("compare.output")
		require.NoError(t, err)
		assert.Equal(t, "json", got, "falls back to the bare key")
	})
}
