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

package queue

import "sync"

// minBlockingCap is the smallest ring capacity. Must be a power of 2.
const minBlockingCap = 16

// Blocking is an unbounded FIFO ring buffer with a blocking Wait.
// The socket thread reads its commands and network results from it.
// reference: https://github.com/eapache/queue
type Blocking[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	nodes  []T
	head   int
	tail   int
	count  int
	closed bool
}

// NewBlocking creates an empty Blocking queue
func NewBlocking[T any]() *Blocking[T] {
	q := &Blocking[T]{nodes: make([]T, minBlockingCap)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an item. It returns false and drops the item once the queue is closed.
func (q *Blocking[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	if q.count == len(q.nodes) {
		q.resize(q.count << 1)
	}
	q.nodes[q.tail] = item
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
	q.cond.Signal()
	return true
}

// Wait blocks until an item is available and removes it.
// It returns false once the queue is closed, even if items remain.
func (q *Blocking[T]) Wait() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// Pop removes the front item without blocking.
func (q *Blocking[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// Close closes the queue, wakes every waiter and returns the items left behind.
func (q *Blocking[T]) Close() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	remaining := make([]T, 0, q.count)
	for q.count > 0 {
		remaining = append(remaining, q.pop())
	}
	q.closed = true
	q.nodes = nil
	q.cond.Broadcast()
	return remaining
}

// IsClosed reports whether Close has been called
func (q *Blocking[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items
func (q *Blocking[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

func (q *Blocking[T]) pop() T {
	var zero T
	item := q.nodes[q.head]
	q.nodes[q.head] = zero
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--
	if len(q.nodes) > minBlockingCap && q.count<<2 == len(q.nodes) {
		q.resize(len(q.nodes) >> 1)
	}
	return item
}

func (q *Blocking[T]) resize(size int) {
	nodes := make([]T, size)
	if q.count > 0 {
		if q.tail > q.head {
			copy(nodes, q.nodes[q.head:q.tail])
		} else {
			n := copy(nodes, q.nodes[q.head:])
			copy(nodes[n:], q.nodes[:q.tail])
		}
	}
	q.head = 0
	q.tail = q.count & (size - 1)
	q.nodes = nodes
}
