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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/gosky/internal/daemon"
)

func TestVersion(t *testing.T) {
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "gosky "+version)
}

func TestStart(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "gosky.pid")
	configPath := filepath.Join(dir, "node.yaml")
	content := "thread: 2\n" +
		"bootstrap: \"bootstrap echo .echo\"\n" +
		"logger: " + strconv.Quote(filepath.Join(dir, "gosky.log")) + "\n" +
		"daemon: " + strconv.Quote(pidPath) + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- start(ctx, configPath) }()

	require.Eventually(t, func() bool {
		pid, err := daemon.Read(pidPath)
		return err == nil && pid == os.Getpid()
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		require.FailNow(t, "node did not stop")
	}

	_, err := os.Stat(pidPath)
	assert.True(t, os.IsNotExist(err))

	logs, err := os.ReadFile(filepath.Join(dir, "gosky.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logs), "node started")
}
