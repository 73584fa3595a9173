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
	"github.com/Workiva/go-datastructures/queue"
)

// scheduler is the global queue of Ready services. A service is pushed only
// by whoever wins its Idle to Ready transition, so it is queued at most once.
type scheduler struct {
	ready *queue.Queue
}

func newScheduler(hint int) *scheduler {
	return &scheduler{ready: queue.New(int64(hint))}
}

// push queues a Ready service. It fails once the scheduler is disposed.
func (s *scheduler) push(p *process) error {
	return s.ready.Put(p)
}

// pop blocks until a service is ready or the scheduler is disposed.
func (s *scheduler) pop() (*process, error) {
	items, err := s.ready.Get(1)
	if err != nil {
		return nil, err
	}
	return items[0].(*process), nil
}

func (s *scheduler) len() int {
	return int(s.ready.Len())
}

// dispose wakes every blocked worker and drops the queued services.
func (s *scheduler) dispose() {
	s.ready.Dispose()
}
