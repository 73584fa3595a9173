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
	"sync"

	"github.com/tochemey/gosky/internal/queue"
)

// overloadThreshold is the mailbox length of the first overload warning.
const overloadThreshold = 1024

// mailbox is the FIFO queue of a service. Any goroutine may push; only the
// worker holding the service pops.
//
// The read-write lock orders pushes against close: a push either lands before
// the mailbox is closed, and is then drained by close, or fails.
type mailbox struct {
	mu     sync.RWMutex
	closed bool
	queue  *queue.Mpsc[*Message]

	// consumer side only
	threshold int
}

func newMailbox() *mailbox {
	return &mailbox{
		queue:     queue.NewMpsc[*Message](),
		threshold: overloadThreshold,
	}
}

func (m *mailbox) push(msg *Message) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}
	m.queue.Push(msg)
	return true
}

func (m *mailbox) pop() (*Message, bool) {
	return m.queue.Pop()
}

func (m *mailbox) len() int {
	return m.queue.Len()
}

// overload returns the mailbox length when it crossed the current warning
// threshold, doubling the threshold. The threshold resets once drained.
func (m *mailbox) overload() int {
	length := m.queue.Len()
	if length == 0 {
		m.threshold = overloadThreshold
		return 0
	}
	if length > m.threshold {
		for m.threshold < length {
			m.threshold <<= 1
		}
		return length
	}
	return 0
}

// close rejects further pushes and returns the messages left in the mailbox.
func (m *mailbox) close() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true

	var pending []*Message
	for {
		msg, ok := m.queue.Pop()
		if !ok {
			return pending
		}
		pending = append(pending, msg)
	}
}
