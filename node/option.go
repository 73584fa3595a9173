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

package node

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/harbor"
	"github.com/tochemey/gosky/log"
)

// StallHandler is notified when the monitor finds a service stuck on one
// message. It runs on the monitor thread and must not block.
type StallHandler func(id address.ID, elapsed time.Duration)

// Option is the interface that applies a node option.
type Option interface {
	// Apply sets the Option value of a node.
	Apply(n *Node)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Node)

func (f OptionFunc) Apply(n *Node) {
	f(n)
}

// WithLogger sets the node logger, overriding the logger target of the configuration.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(n *Node) {
		n.logger = logger
	})
}

// WithModule registers a module factory under name.
func WithModule(name string, factory Factory) Option {
	return OptionFunc(func(n *Node) {
		n.loader.register(name, factory)
	})
}

// WithTransport sets the harbor transport used for remote destinations.
func WithTransport(transport harbor.Transport) Option {
	return OptionFunc(func(n *Node) {
		n.transport = transport
	})
}

// WithStallHandler sets the function called when a stall is detected.
func WithStallHandler(handler StallHandler) Option {
	return OptionFunc(func(n *Node) {
		n.stallHandler = handler
	})
}

// WithMeterProvider sets the meter provider used when profiling is on.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(n *Node) {
		n.meterProvider = provider
	})
}

// WithSocketWarnSize sets the outbound buffer size of the first socket warning.
func WithSocketWarnSize(size int) Option {
	return OptionFunc(func(n *Node) {
		n.socketWarnSize = size
	})
}
