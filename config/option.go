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
	"time"

	"github.com/tochemey/gosky/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithThread sets the number of worker threads.
func WithThread(n int) Option {
	return OptionFunc(func(c *Config) { c.thread = n })
}

// WithHarbor sets the node id.
func WithHarbor(harbor int) Option {
	return OptionFunc(func(c *Config) { c.harbor = harbor })
}

// WithProfile enables per-service cost accounting and metrics.
func WithProfile() Option {
	return OptionFunc(func(c *Config) { c.profile = true })
}

// WithDaemon sets the pid file used in daemon mode.
func WithDaemon(pidFile string) Option {
	return OptionFunc(func(c *Config) { c.daemon = pidFile })
}

// WithModulePath sets the module search patterns.
func WithModulePath(path string) Option {
	return OptionFunc(func(c *Config) { c.modulePath = path })
}

// WithBootstrap sets the bootstrap command.
func WithBootstrap(command string) Option {
	return OptionFunc(func(c *Config) { c.bootstrap = command })
}

// WithLogger sets the log target file.
func WithLogger(target string) Option {
	return OptionFunc(func(c *Config) { c.logger = target })
}

// WithLogService sets the module name of the logger service.
func WithLogService(module string) Option {
	return OptionFunc(func(c *Config) { c.logService = module })
}

// WithLogLevel sets the log level.
func WithLogLevel(level log.Level) Option {
	return OptionFunc(func(c *Config) { c.logLevel = level })
}

// WithMonitorInterval sets the interval between monitor scans.
func WithMonitorInterval(interval time.Duration) Option {
	return OptionFunc(func(c *Config) { c.monitorInterval = interval })
}

// WithStallThreshold sets the number of scans without progress before a stall is reported.
func WithStallThreshold(scans int) Option {
	return OptionFunc(func(c *Config) { c.stallThreshold = scans })
}

// WithTimerTick sets the timer wheel resolution.
func WithTimerTick(tick time.Duration) Option {
	return OptionFunc(func(c *Config) { c.timerTick = tick })
}

// WithDispatchCap sets the maximum batch handled per dispatch.
func WithDispatchCap(n int) Option {
	return OptionFunc(func(c *Config) { c.dispatchCap = n })
}

// WithHarborNATS enables the NATS harbor transport.
func WithHarborNATS(url string) Option {
	return OptionFunc(func(c *Config) { c.harborNATS = url })
}

// WithHarborSubject sets the NATS subject prefix.
func WithHarborSubject(subject string) Option {
	return OptionFunc(func(c *Config) { c.harborSubject = subject })
}
