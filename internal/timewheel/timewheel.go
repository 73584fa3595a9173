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

// Package timewheel implements a hierarchical timing wheel.
//
// The wheel has 256 near slots, one per tick, and four outer levels of 64
// slots each, covering the whole uint32 tick range. Entries cascade from the
// outer levels towards the near slots as time advances, so both Add and
// Advance run in constant amortized time. A Wheel is not safe for concurrent
// use; the timer thread owns it.
package timewheel

const (
	nearShift  = 8
	nearSlots  = 1 << nearShift
	nearMask   = nearSlots - 1
	levelShift = 6
	levelSlots = 1 << levelShift
	levelMask  = levelSlots - 1
	levels     = 4
)

type entry[T any] struct {
	expire uint32
	value  T
}

// Wheel is a five level timing wheel holding values of type T.
type Wheel[T any] struct {
	near  [nearSlots][]entry[T]
	outer [levels][levelSlots][]entry[T]
	now   uint32
	size  int
}

// New creates an empty wheel at tick zero
func New[T any]() *Wheel[T] {
	return new(Wheel[T])
}

// Now returns the current tick
func (w *Wheel[T]) Now() uint32 {
	return w.now
}

// Len returns the number of pending entries
func (w *Wheel[T]) Len() int {
	return w.size
}

// Add schedules value to fire after the given number of ticks.
// Zero ticks fires on the next call to Advance.
func (w *Wheel[T]) Add(ticks uint32, value T) {
	w.place(entry[T]{expire: w.now + ticks, value: value})
	w.size++
}

// Advance moves the wheel forward by one tick and calls fire for every
// entry that expires, in insertion order per slot.
func (w *Wheel[T]) Advance(fire func(T)) {
	w.execute(fire)
	w.shift()
	w.execute(fire)
}

func (w *Wheel[T]) place(e entry[T]) {
	if e.expire|nearMask == w.now|nearMask {
		idx := e.expire & nearMask
		w.near[idx] = append(w.near[idx], e)
		return
	}

	level := 0
	mask := uint32(nearSlots << levelShift)
	for ; level < levels-1; level++ {
		if e.expire|(mask-1) == w.now|(mask-1) {
			break
		}
		mask <<= levelShift
	}

	idx := (e.expire >> (nearShift + uint(level)*levelShift)) & levelMask
	w.outer[level][idx] = append(w.outer[level][idx], e)
}

// cascade redistributes an outer slot once the clock enters its range.
func (w *Wheel[T]) cascade(level int, idx uint32) {
	entries := w.outer[level][idx]
	w.outer[level][idx] = nil
	for _, e := range entries {
		w.place(e)
	}
}

func (w *Wheel[T]) shift() {
	w.now++
	current := w.now
	if current == 0 {
		w.cascade(levels-1, 0)
		return
	}

	mask := uint32(nearSlots)
	t := current >> nearShift
	for level := 0; current&(mask-1) == 0; level++ {
		idx := t & levelMask
		if idx != 0 {
			w.cascade(level, idx)
			return
		}
		mask <<= levelShift
		t >>= levelShift
	}
}

func (w *Wheel[T]) execute(fire func(T)) {
	idx := w.now & nearMask
	for len(w.near[idx]) > 0 {
		entries := w.near[idx]
		w.near[idx] = nil
		w.size -= len(entries)
		for _, e := range entries {
			fire(e.value)
		}
	}
}
