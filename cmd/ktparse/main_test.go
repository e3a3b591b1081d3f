package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/kaltime/format"
	"github.com/gyeh/kaltime/internal/config"
	"github.com/gyeh/kaltime/internal/exitcode"
)

func TestValidateBatch_ExitCodes(t *testing.T) {
	input := filepath.Join(t.TempDir(), "missing.txt")

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   int
	}{
		{name: "bad zone", mutate: func(c *config.Config) { c.NaiveZone = "local" }, want: exitcode.ConfigError},
		{name: "bad log format", mutate: func(c *config.Config) { c.LogFormat = "xml" }, want: exitcode.ConfigError},
		{name: "shadowed format", mutate: func(c *config.Config) {
			c.Formats = []config.FormatSpec{
				{ID: "ymd", Pattern: "%Y-%m-%d"},
				{ID: "ydm", Pattern: "%Y-%d-%m"},
			}
		}, want: exitcode.ConfigError},
		{name: "no file", mutate: func(c *config.Config) { c.FilePath = "" }, want: exitcode.UsageError},
		{name: "missing file", mutate: func(c *config.Config) {}, want: exitcode.UsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			c.FilePath = input
			tt.mutate(&c)

			code, err := validateBatch(&c)
			require.Error(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestListFormats_ShowsShadowed(t *testing.T) {
	c := config.Default()
	c.Partial = false
	c.Formats = []config.FormatSpec{
		{ID: "ymd", Pattern: "%Y-%m-%d"},
		{ID: "ydm", Pattern: "%Y-%d-%m"},
	}
	reg, err := c.Compile()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, listFormats(&out, reg))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "ymd")
	assert.Contains(t, lines[2], "ydm")
	assert.Len(t, reg.Shadowed(), 1)
}

func TestListFormats_BuiltIn(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listFormats(&out, format.WithPartial()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, format.WithPartial().Len()+1)
	assert.Regexp(t, `^1\s+rfc3339-frac\s+%Y-%m-%dT%H:%M:%S\.%f%:z\s+yes\s+yes$`, lines[1])
	assert.Regexp(t, `\s+minute\s+%M\s+-\s+no$`, lines[len(lines)-1])
}
