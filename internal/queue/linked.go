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

import "sync/atomic"

type linkedNode[T any] struct {
	value T
	next  atomic.Pointer[linkedNode[T]]
}

// Linked is a lock-free multi-producer multi-consumer FIFO queue
// (Michael & Scott). The timer thread uses it as its registration inbox.
type Linked[T any] struct {
	head, tail atomic.Pointer[linkedNode[T]]
}

// NewLinked creates an empty Linked queue
func NewLinked[T any]() *Linked[T] {
	stub := new(linkedNode[T])
	q := new(Linked[T])
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

// Push appends value at the back of the queue.
func (q *Linked[T]) Push(value T) {
	n := &linkedNode[T]{value: value}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if next != nil {
			// help a lagging producer
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			return
		}
	}
}

// Pop removes the value at the front of the queue.
func (q *Linked[T]) Pop() (T, bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if next == nil {
			var zero T
			return zero, false
		}
		if head == tail {
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if q.head.CompareAndSwap(head, next) {
			return next.value, true
		}
	}
}

// Drain pops every value currently in the queue and calls fn for each one in order.
func (q *Linked[T]) Drain(fn func(T)) int {
	count := 0
	for {
		value, ok := q.Pop()
		if !ok {
			return count
		}
		fn(value)
		count++
	}
}

// IsEmpty reports whether the queue is empty
func (q *Linked[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}
