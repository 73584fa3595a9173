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
	"github.com/tochemey/gosky/log"
)

// weights sets how much of a mailbox each worker handles per dispatch. Worker
// i handles len >> weights[i] messages; -1 means a single message. Mixing
// weights keeps latency low for some workers and throughput high for others.
var weights = []int{
	-1, -1, -1, -1,
	0, 0, 0, 0,
	1, 1, 1, 1, 1, 1, 1, 1,
	2, 2, 2, 2, 2, 2, 2, 2,
	3, 3, 3, 3, 3, 3, 3, 3,
}

type worker struct {
	index    int
	weight   int
	capacity int
	node     *Node
	record   *monitorRecord
	logger   log.Logger
}

func newWorker(node *Node, index int) *worker {
	weight := 0
	if index < len(weights) {
		weight = weights[index]
	}
	return &worker{
		index:    index,
		weight:   weight,
		capacity: node.config.DispatchCap(),
		node:     node,
		record:   newMonitorRecord(),
		logger:   node.logger.With("thread", RoleWorker.String(), "worker", index),
	}
}

// run pops ready services until the scheduler queue is disposed.
func (w *worker) run() error {
	w.logger.Debug("worker started")
	for {
		p, err := w.node.scheduler.pop()
		if err != nil {
			w.logger.Debug("worker stopped")
			return nil
		}
		w.node.dispatch(w, p)
	}
}

// batch returns how many messages to handle out of a mailbox of the given length.
func (w *worker) batch(length int) int {
	if w.weight < 0 {
		return 1
	}
	size := length >> w.weight
	if size < 1 {
		size = 1
	}
	if size > w.capacity {
		size = w.capacity
	}
	return size
}
