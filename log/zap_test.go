/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLevels(t *testing.T) {
	t.Run("With unknown level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(7, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "test debug", entry["msg"])
		assert.Equal(t, DebugLevel.String(), entry["level"])
	})
	t.Run("With info level drops debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Debug("hidden")
		assert.Empty(t, buffer.String())

		logger.Infof("hello %s", "node")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "hello node", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.False(t, logger.Enabled(DebugLevel))
		assert.True(t, logger.Enabled(ErrorLevel))
	})
	t.Run("With warn level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		logger.Info("hidden")
		logger.Warnf("mailbox length %d", 1024)
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "mailbox length 1024", entry["msg"])
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, WarningLevel, logger.LogLevel())
	})
	t.Run("With error level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		logger.Warn("hidden")
		logger.Error("failed")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "failed", entry["msg"])
		assert.Equal(t, "error", entry["level"])
		assert.Contains(t, entry, "stacktrace")
	})
	t.Run("With panic level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(PanicLevel, buffer)
		assert.Equal(t, PanicLevel, logger.LogLevel())
		assert.Panics(t, func() { logger.Panicf("boom %d", 1) })
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "boom 1", entry["msg"])
	})
	t.Run("SetLevel applies to derived loggers", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		child := logger.With("service", ":01000001")
		logger.SetLevel(DebugLevel)
		child.Debug("visible")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "visible", entry["msg"])
		assert.Equal(t, ":01000001", entry["service"])
	})
}

func TestZapWith(t *testing.T) {
	t.Run("With adds structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("service", "echo", "slot", uint32(3), "elapsed", time.Second, "err", errors.New("bad")).Info("started")

		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "started", entry["msg"])
		assert.Equal(t, "echo", entry["service"])
		assert.EqualValues(t, 3, entry["slot"])
		assert.Equal(t, "1s", entry["elapsed"])
		assert.Equal(t, "bad", entry["err"])
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, Logger(logger), logger.With())
		assert.Equal(t, Logger(logger), logger.With(1, 2))
	})
	t.Run("With odd key values uses _ for the orphan", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, "orphan").Info("msg")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Contains(t, entry, "a")
		assert.Equal(t, "orphan", entry["_"])
	})
	t.Run("With skips non string keys", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With(42, "ignored", "k", "v").Info("msg")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "v", entry["k"])
		assert.NotContains(t, entry, "42")
	})
}

func TestZapFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "node.log")
	logger, closer, err := Open(path, InfoLevel)
	require.NoError(t, err)

	logger.Info("buffered")
	logger.Error("immediate")
	require.NoError(t, logger.Flush())
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, string(content), `"msg":"buffered"`)
	assert.Contains(t, string(content), `"msg":"immediate"`)

	// reopening appends
	logger, closer, err = Open(path, InfoLevel)
	require.NoError(t, err)
	logger.Warn("again")
	require.NoError(t, closer.Close())

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(content)), "\n"), 3)
}

func TestOpenStdout(t *testing.T) {
	logger, closer, err := Open("", DebugLevel)
	require.NoError(t, err)
	require.Len(t, logger.LogOutput(), 1)
	assert.Equal(t, os.Stdout, logger.LogOutput()[0])
	assert.NoError(t, closer.Close())
}

func TestOpenInvalidPath(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Open(dir, InfoLevel)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        InfoLevel,
		"info":    InfoLevel,
		"DEBUG":   DebugLevel,
		"warn":    WarningLevel,
		"warning": WarningLevel,
		" error ": ErrorLevel,
		"fatal":   FatalLevel,
		"panic":   PanicLevel,
	}
	for name, expected := range cases {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	level, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Equal(t, InvalidLevel, level)
	assert.Equal(t, "invalid", level.String())
}

func decodeEntry(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(raw), []byte("\n"))
	require.NotEmpty(t, lines)
	entry := make(map[string]any)
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}
