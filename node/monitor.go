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
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/internal/ticker"
	"github.com/tochemey/gosky/log"
)

// monitorRecord is written by one worker and read by the monitor thread.
type monitorRecord struct {
	current *atomic.Uint32
	source  *atomic.Uint32
	start   *atomic.Int64
	version *atomic.Uint64

	// monitor thread only
	seen     uint64
	strikes  int
	reported bool
}

func newMonitorRecord() *monitorRecord {
	return &monitorRecord{
		current: atomic.NewUint32(0),
		source:  atomic.NewUint32(0),
		start:   atomic.NewInt64(0),
		version: atomic.NewUint64(0),
	}
}

func (r *monitorRecord) begin(id, source address.ID) {
	r.source.Store(uint32(source))
	r.start.Store(time.Now().UnixNano())
	r.current.Store(uint32(id))
	r.version.Inc()
}

func (r *monitorRecord) end() {
	r.current.Store(0)
}

// monitor reports workers that stay on the same message for stall threshold
// consecutive scans. A stalled service is flagged, never interrupted.
type monitor struct {
	node      *Node
	records   []*monitorRecord
	interval  time.Duration
	threshold int
	handler   StallHandler
	logger    log.Logger
}

func newMonitor(node *Node, records []*monitorRecord) *monitor {
	return &monitor{
		node:      node,
		records:   records,
		interval:  node.config.MonitorInterval(),
		threshold: node.config.StallThreshold(),
		handler:   node.stallHandler,
		logger:    node.logger.With("thread", RoleMonitor.String()),
	}
}

func (m *monitor) run(ctx context.Context) {
	tk := ticker.New(m.interval)
	tk.Start()
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			m.scan()
		}
	}
}

func (m *monitor) scan() {
	for index, record := range m.records {
		version := record.version.Load()
		current := address.ID(record.current.Load())
		if current.IsZero() || version != record.seen {
			record.seen = version
			record.strikes = 0
			record.reported = false
			continue
		}

		record.strikes++
		if record.strikes < m.threshold || record.reported {
			continue
		}
		record.reported = true

		source := address.ID(record.source.Load())
		elapsed := time.Since(time.Unix(0, record.start.Load()))
		m.logger.With("worker", index, "service", current.String(), "source", source.String()).
			Warnf("service %s may be in an endless loop, busy for %s", current, elapsed)

		if p, ok := m.node.registry.get(current); ok {
			p.endless.Store(true)
		}
		if m.handler != nil {
			m.handler(current, elapsed)
		}
	}
}
