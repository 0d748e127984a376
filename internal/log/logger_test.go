package log

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Out: &buf})
	t.Cleanup(func() { Init(Options{Level: "disabled"}) })

	Debug().Msg("hidden")
	Info().Str("op", "load").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "load", entry["op"])
	assert.Equal(t, "shown", entry["message"])
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "error", Format: "json", Out: &buf})
	t.Cleanup(func() { Init(Options{Level: "disabled"}) })

	Warn().Msg("dropped")
	SetLevel("debug")
	Debug().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{
		"debug": "debug", "WARN": "warn", "warning": "warn", "error": "error",
		"off": "disabled", "": "info", "bogus": "info",
	} {
		assert.Equal(t, want, parseLogLevel(in).String(), in)
	}
}

func TestStdErrorLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Out: &buf})
	t.Cleanup(func() { Init(Options{Level: "disabled"}) })

	StdErrorLogger().Println("http: TLS handshake error")

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "TLS handshake error")
}

func TestOpenFile_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tada.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	_, err = f.WriteString("x\n")
	assert.NoError(t, err)
}
