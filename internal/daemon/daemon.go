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

// Package daemon manages the pid file of a node running in daemon mode.
// Detaching from the terminal is left to the process supervisor.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is returned when the pid file names a live process.
var ErrAlreadyRunning = errors.New("daemon is already running")

// PIDFile is an acquired pid file.
type PIDFile struct {
	path string
	pid  int
}

// Acquire writes the current pid to path. It fails with ErrAlreadyRunning
// when path holds the pid of another live process. Stale files are replaced.
func Acquire(path string) (*PIDFile, error) {
	if pid, err := Read(path); err == nil {
		if pid != os.Getpid() && alive(pid) {
			return nil, fmt.Errorf("%w: pid %d (%s)", ErrAlreadyRunning, pid, path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create pid directory %s: %w", dir, err)
		}
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write pid file %s: %w", path, err)
	}
	return &PIDFile{path: path, pid: pid}, nil
}

// Read returns the pid stored in path.
func Read(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return 0, os.ErrNotExist
	}
	pid, err := strconv.Atoi(content)
	if err != nil || pid <= 0 {
		// garbage is treated as a stale file
		return 0, os.ErrNotExist
	}
	return pid, nil
}

// Path returns the pid file path
func (p *PIDFile) Path() string {
	return p.path
}

// PID returns the recorded pid
func (p *PIDFile) PID() int {
	return p.pid
}

// Release removes the pid file if it still holds our pid.
func (p *PIDFile) Release() error {
	pid, err := Read(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if pid != p.pid {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove pid file %s: %w", p.path, err)
	}
	return nil
}
