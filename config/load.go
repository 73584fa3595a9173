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
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/gosky/log"
)

// file mirrors the YAML layout. Pointers distinguish an absent key from a zero value.
type file struct {
	Thread          *int           `yaml:"thread"`
	Harbor          *int           `yaml:"harbor"`
	Profile         *bool          `yaml:"profile"`
	Daemon          *string        `yaml:"daemon"`
	ModulePath      *string        `yaml:"module_path"`
	Bootstrap       *string        `yaml:"bootstrap"`
	Logger          *string        `yaml:"logger"`
	LogService      *string        `yaml:"logservice"`
	LogLevel        *string        `yaml:"log_level"`
	MonitorInterval *time.Duration `yaml:"monitor_interval"`
	StallThreshold  *int           `yaml:"stall_threshold"`
	TimerTick       *time.Duration `yaml:"timer_tick"`
	DispatchCap     *int           `yaml:"dispatch_cap"`
	HarborNATS      *string        `yaml:"harbor_nats"`
	HarborSubject   *string        `yaml:"harbor_subject"`
}

// Load reads and validates the YAML configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes and validates a YAML configuration. Unknown keys are rejected.
func Read(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var in file
	if len(bytes.TrimSpace(raw)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(raw))
		decoder.KnownFields(true)
		if err := decoder.Decode(&in); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	opts, err := in.options()
	if err != nil {
		return nil, err
	}
	return New(opts...)
}

func (f file) options() ([]Option, error) {
	var opts []Option
	if f.Thread != nil {
		opts = append(opts, WithThread(*f.Thread))
	}
	if f.Harbor != nil {
		opts = append(opts, WithHarbor(*f.Harbor))
	}
	if f.Profile != nil && *f.Profile {
		opts = append(opts, WithProfile())
	}
	if f.Daemon != nil {
		opts = append(opts, WithDaemon(*f.Daemon))
	}
	if f.ModulePath != nil {
		opts = append(opts, WithModulePath(*f.ModulePath))
	}
	if f.Bootstrap != nil {
		opts = append(opts, WithBootstrap(*f.Bootstrap))
	}
	if f.Logger != nil {
		opts = append(opts, WithLogger(*f.Logger))
	}
	if f.LogService != nil {
		opts = append(opts, WithLogService(*f.LogService))
	}
	if f.LogLevel != nil {
		level, err := log.ParseLevel(*f.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
		opts = append(opts, WithLogLevel(level))
	}
	if f.MonitorInterval != nil {
		opts = append(opts, WithMonitorInterval(*f.MonitorInterval))
	}
	if f.StallThreshold != nil {
		opts = append(opts, WithStallThreshold(*f.StallThreshold))
	}
	if f.TimerTick != nil {
		opts = append(opts, WithTimerTick(*f.TimerTick))
	}
	if f.DispatchCap != nil {
		opts = append(opts, WithDispatchCap(*f.DispatchCap))
	}
	if f.HarborNATS != nil {
		opts = append(opts, WithHarborNATS(*f.HarborNATS))
	}
	if f.HarborSubject != nil {
		opts = append(opts, WithHarborSubject(*f.HarborSubject))
	}
	return opts, nil
}
