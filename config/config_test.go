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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/log"
)

func TestNew(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultThread, cfg.Thread())
		assert.Zero(t, cfg.Harbor())
		assert.False(t, cfg.Profile())
		assert.Empty(t, cfg.Daemon())
		assert.Equal(t, "?", cfg.ModulePath())
		assert.Equal(t, "bootstrap", cfg.Bootstrap())
		assert.Empty(t, cfg.Logger())
		assert.Equal(t, "logger", cfg.LogService())
		assert.Equal(t, log.InfoLevel, cfg.LogLevel())
		assert.Equal(t, 5*time.Second, cfg.MonitorInterval())
		assert.Equal(t, 2, cfg.StallThreshold())
		assert.Equal(t, 10*time.Millisecond, cfg.TimerTick())
		assert.Equal(t, 64, cfg.DispatchCap())
		assert.Empty(t, cfg.HarborNATS())
		assert.Equal(t, DefaultHarborSubject, cfg.HarborSubject())
	})
	t.Run("With options", func(t *testing.T) {
		cfg, err := New(
			WithThread(4),
			WithHarbor(1),
			WithProfile(),
			WithDaemon("/tmp/gosky.pid"),
			WithModulePath("./services/?;?"),
			WithBootstrap("root hello world"),
			WithLogger("/tmp/gosky.log"),
			WithLogService("syslog"),
			WithLogLevel(log.DebugLevel),
			WithMonitorInterval(time.Second),
			WithStallThreshold(3),
			WithTimerTick(time.Millisecond),
			WithDispatchCap(16),
			WithHarborNATS("nats://127.0.0.1:4222"),
			WithHarborSubject("cluster"),
		)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Thread())
		assert.EqualValues(t, 1, cfg.Harbor())
		assert.True(t, cfg.Profile())
		assert.Equal(t, "/tmp/gosky.pid", cfg.Daemon())
		assert.Equal(t, "./services/?;?", cfg.ModulePath())
		assert.Equal(t, "/tmp/gosky.log", cfg.Logger())
		assert.Equal(t, "syslog", cfg.LogService())
		assert.Equal(t, log.DebugLevel, cfg.LogLevel())
		assert.Equal(t, time.Second, cfg.MonitorInterval())
		assert.Equal(t, 3, cfg.StallThreshold())
		assert.Equal(t, time.Millisecond, cfg.TimerTick())
		assert.Equal(t, 16, cfg.DispatchCap())
		assert.Equal(t, "nats://127.0.0.1:4222", cfg.HarborNATS())
		assert.Equal(t, "cluster", cfg.HarborSubject())

		module, args := cfg.BootstrapCommand()
		assert.Equal(t, "root", module)
		assert.Equal(t, "hello world", args)
	})
	t.Run("With invalid values", func(t *testing.T) {
		cfg, err := New(
			WithThread(0),
			WithHarbor(256),
			WithBootstrap("  "),
			WithDaemon("/tmp/gosky.pid"),
			WithMonitorInterval(0),
			WithStallThreshold(0),
			WithTimerTick(-time.Millisecond),
			WithDispatchCap(0),
		)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, gerrors.ErrInvalidConfig)

		var configErr *gerrors.ConfigError
		require.True(t, errors.As(err, &configErr))

		for _, fragment := range []string{"thread", "harbor", "bootstrap", "daemon", "monitor_interval", "stall_threshold", "timer_tick", "dispatch_cap"} {
			assert.Contains(t, err.Error(), fragment)
		}
	})
	t.Run("With NATS harbor on harbor zero", func(t *testing.T) {
		_, err := New(WithHarborNATS("nats://127.0.0.1:4222"))
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "harbor_nats")
	})
}

func TestSplitCommand(t *testing.T) {
	module, args := SplitCommand("echo")
	assert.Equal(t, "echo", module)
	assert.Empty(t, args)

	module, args = SplitCommand("  gate 127.0.0.1:8888  ")
	assert.Equal(t, "gate", module)
	assert.Equal(t, "127.0.0.1:8888", args)
}

func TestLoad(t *testing.T) {
	t.Run("With a complete file", func(t *testing.T) {
		content := `
thread: 4
harbor: 1
profile: true
module_path: "./service/?;?"
bootstrap: "root start"
logger: ""
logservice: logger
log_level: debug
monitor_interval: 100ms
stall_threshold: 3
timer_tick: 5ms
dispatch_cap: 32
`
		path := filepath.Join(t.TempDir(), "node.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Thread())
		assert.EqualValues(t, 1, cfg.Harbor())
		assert.True(t, cfg.Profile())
		assert.Equal(t, "./service/?;?", cfg.ModulePath())
		assert.Equal(t, "root start", cfg.Bootstrap())
		assert.Equal(t, log.DebugLevel, cfg.LogLevel())
		assert.Equal(t, 100*time.Millisecond, cfg.MonitorInterval())
		assert.Equal(t, 3, cfg.StallThreshold())
		assert.Equal(t, 5*time.Millisecond, cfg.TimerTick())
		assert.Equal(t, 32, cfg.DispatchCap())
	})
	t.Run("With an empty document", func(t *testing.T) {
		cfg, err := Read(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultThread, cfg.Thread())
	})
	t.Run("With an unknown key", func(t *testing.T) {
		_, err := Read(strings.NewReader("threads: 4\n"))
		require.Error(t, err)
	})
	t.Run("With an invalid log level", func(t *testing.T) {
		_, err := Read(strings.NewReader("log_level: loud\n"))
		require.Error(t, err)
	})
	t.Run("With an invalid value", func(t *testing.T) {
		_, err := Read(strings.NewReader("harbor: 300\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	})
	t.Run("With a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
