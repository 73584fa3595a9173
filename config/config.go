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

// Package config holds the immutable node configuration.
//
// A Config is built either from functional options with New or from a YAML
// file with Load. It is validated once and never changes afterwards; every
// runtime component reads it through the getters.
package config

import (
	"strings"
	"time"

	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/internal/validation"
	"github.com/tochemey/gosky/log"
)

const (
	DefaultThread          = 8
	DefaultModulePath      = "?"
	DefaultBootstrap       = "bootstrap"
	DefaultLogService      = "logger"
	DefaultMonitorInterval = 5 * time.Second
	DefaultStallThreshold  = 2
	DefaultTimerTick       = 10 * time.Millisecond
	DefaultDispatchCap     = 64
	DefaultHarborSubject   = "gosky.harbor"

	// MaxHarbor is the largest harbor id that fits in a service id.
	MaxHarbor = 255
)

// Config is the node configuration. It is read once at startup.
type Config struct {
	thread          int
	harbor          int
	profile         bool
	daemon          string
	modulePath      string
	bootstrap       string
	logger          string
	logService      string
	logLevel        log.Level
	monitorInterval time.Duration
	stallThreshold  int
	timerTick       time.Duration
	dispatchCap     int
	harborNATS      string
	harborSubject   string
}

// New creates a validated Config from the defaults and the given options.
func New(opts ...Option) (*Config, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		thread:          DefaultThread,
		modulePath:      DefaultModulePath,
		bootstrap:       DefaultBootstrap,
		logService:      DefaultLogService,
		logLevel:        log.InfoLevel,
		monitorInterval: DefaultMonitorInterval,
		stallThreshold:  DefaultStallThreshold,
		timerTick:       DefaultTimerTick,
		dispatchCap:     DefaultDispatchCap,
		harborSubject:   DefaultHarborSubject,
	}
}

// Validate checks every rule and returns a ConfigError listing all the violations.
func (c *Config) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewRangeValidator("thread", c.thread, 1, 1<<16)).
		AddValidator(validation.NewRangeValidator("harbor", c.harbor, 0, MaxHarbor)).
		AddValidator(validation.NewEmptyStringValidator("bootstrap", strings.TrimSpace(c.bootstrap))).
		AddValidator(validation.NewEmptyStringValidator("module_path", c.modulePath)).
		AddAssertion(c.daemon == "" || c.logger != "", "daemon mode requires a logger file").
		AddAssertion(c.logLevel >= log.InfoLevel && c.logLevel < log.InvalidLevel, "the [log_level] is invalid").
		AddAssertion(c.monitorInterval > 0, "the [monitor_interval] must be positive").
		AddAssertion(c.stallThreshold >= 1, "the [stall_threshold] must be at least 1").
		AddAssertion(c.timerTick > 0, "the [timer_tick] must be positive").
		AddAssertion(c.dispatchCap >= 1, "the [dispatch_cap] must be at least 1").
		AddAssertion(c.harborNATS == "" || c.harbor >= 1, "the [harbor_nats] transport requires a harbor id between 1 and 255").
		AddAssertion(c.harborNATS == "" || c.harborSubject != "", "the [harbor_subject] is required with [harbor_nats]")

	if err := chain.Validate(); err != nil {
		return gerrors.NewConfigError(err)
	}
	return nil
}

// Thread returns the number of worker threads
func (c *Config) Thread() int { return c.thread }

// Harbor returns the node id encoded in the upper bits of every service id
func (c *Config) Harbor() uint32 { return uint32(c.harbor) }

// Profile reports whether per-service cost accounting and metrics are enabled
func (c *Config) Profile() bool { return c.profile }

// Daemon returns the pid file path. Empty means foreground mode.
func (c *Config) Daemon() string { return c.daemon }

// ModulePath returns the module search patterns separated by ';'
func (c *Config) ModulePath() string { return c.modulePath }

// Bootstrap returns the bootstrap command in the form "module args"
func (c *Config) Bootstrap() string { return c.bootstrap }

// Logger returns the log target. Empty means standard output.
func (c *Config) Logger() string { return c.logger }

// LogService returns the module name of the logger service
func (c *Config) LogService() string { return c.logService }

// LogLevel returns the node log level
func (c *Config) LogLevel() log.Level { return c.logLevel }

// MonitorInterval returns the interval between two monitor scans
func (c *Config) MonitorInterval() time.Duration { return c.monitorInterval }

// StallThreshold returns the number of consecutive scans without progress
// after which a service is reported as stalled
func (c *Config) StallThreshold() int { return c.stallThreshold }

// TimerTick returns the timer wheel resolution
func (c *Config) TimerTick() time.Duration { return c.timerTick }

// DispatchCap returns the maximum number of messages handled per dispatch
func (c *Config) DispatchCap() int { return c.dispatchCap }

// HarborNATS returns the NATS server url of the harbor transport
func (c *Config) HarborNATS() string { return c.harborNATS }

// HarborSubject returns the NATS subject prefix of the harbor transport
func (c *Config) HarborSubject() string { return c.harborSubject }

// BootstrapCommand splits the bootstrap string into module name and arguments
// on the first space.
func (c *Config) BootstrapCommand() (module, args string) {
	return SplitCommand(c.bootstrap)
}

// SplitCommand splits "module args" on the first space.
func SplitCommand(command string) (module, args string) {
	command = strings.TrimSpace(command)
	module, args, _ = strings.Cut(command, " ")
	return module, strings.TrimSpace(args)
}
