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

// Package log defines the logging contract used across a gosky node and its
// zap-backed implementation.
//
// Runtime components derive tagged loggers with With; the keys in use are
// "service" (the service id), "module", "thread" (the thread role),
// "worker" and "harbor".
package log

import (
	"io"
)

// Logger is the structured, leveled logger of a node.
//
// Every level has a Print-style method and a Printf-style one. Fatal logs and
// then exits the process with status 1; Panic logs and then panics.
type Logger interface {
	Debug(...any)
	Debugf(string, ...any)
	Info(...any)
	Infof(string, ...any)
	Warn(...any)
	Warnf(string, ...any)
	Error(...any)
	Errorf(string, ...any)
	Fatal(...any)
	Fatalf(string, ...any)
	Panic(...any)
	Panicf(string, ...any)

	// With returns a child logger adding the key/value pairs to each record.
	// The child shares the level and the outputs of its parent.
	With(keyValues ...any) Logger
	// Enabled tells whether records of the given level are written.
	Enabled(level Level) bool
	// LogLevel returns the minimum level written
	LogLevel() Level
	// LogOutput returns the writers records go to
	LogOutput() []io.Writer
	// Flush writes buffered records out. Call it before closing a file output.
	Flush() error
}
