package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DEBUG,
		" DEBUG ": DEBUG,
		"warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"info":    INFO,
		"verbose": INFO,
		"":        INFO,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Info("hidden")
	l.Warnf("shown %d", 1)
	l.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "also shown")
	assert.NotContains(t, out, "\033[", "color is off unless enabled")

	l.SetLevel(DEBUG)
	assert.True(t, l.IsLevelEnabled(DEBUG))
}

func TestLogger_WithPrefix(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: "info", Output: &buf, Prefix: "cfb"})
	child := parent.WithPrefix("Results").WithPrefix("abcd1234")

	child.Info("applied")
	assert.Contains(t, buf.String(), "[cfb:Results:abcd1234]")
}

func TestLogger_Fatal(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL")
}

func TestLogger_FileCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf, EnableColor: true, FilePath: path})

	l.Info("written twice")

	assert.Contains(t, buf.String(), INFO.Color())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written twice"))
	assert.NotContains(t, string(data), "\033[")
}
