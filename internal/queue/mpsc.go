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

// Package queue provides the queues used by the runtime: the service mailbox
// queue, the lock-free inbox of the timer thread and the blocking command
// queue of the socket thread.
package queue

import (
	"sync/atomic"
)

type mpscNode[T any] struct {
	value T
	next  atomic.Pointer[mpscNode[T]]
}

// Mpsc is an unbounded multi-producer single-consumer FIFO queue.
// Push may be called from any goroutine. Pop and IsEmpty must only be called
// by the current consumer; consumers may change over time as long as a
// happens-before edge separates them.
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type Mpsc[T any] struct {
	head   atomic.Pointer[mpscNode[T]]
	tail   *mpscNode[T]
	length atomic.Int64
}

// NewMpsc creates an empty Mpsc queue
func NewMpsc[T any]() *Mpsc[T] {
	stub := new(mpscNode[T])
	q := &Mpsc[T]{tail: stub}
	q.head.Store(stub)
	return q
}

// Push appends value at the back of the queue.
func (q *Mpsc[T]) Push(value T) {
	n := &mpscNode[T]{value: value}
	previous := q.head.Swap(n)
	previous.next.Store(n)
	q.length.Add(1)
}

// Pop removes the value at the front of the queue.
// It returns false when the queue is empty or a concurrent Push has not
// linked its node yet.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}

	q.tail = next
	value := next.value
	next.value = zero
	q.length.Add(-1)
	return value, true
}

// Len returns the number of values pushed and not yet popped.
func (q *Mpsc[T]) Len() int {
	return int(q.length.Load())
}

// IsEmpty reports whether the next Pop would fail.
func (q *Mpsc[T]) IsEmpty() bool {
	return q.tail.next.Load() == nil
}
