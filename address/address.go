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

// Package address provides the canonical representation of service
// identifiers in a gosky node.
//
// A service id is a 32-bit handle made of two parts:
//
//   - Harbor: the node identifier (upper 8 bits)
//   - Slot: the local slot index within that node (lower 24 bits)
//
// The canonical textual representation of an ID is a colon followed by the
// eight lowercase hexadecimal digits of the handle:
//
//	:01000002
//
// An ID decodes to the same harbor and slot regardless of the node observing
// it. The zero value is NoService, the sentinel used for messages originating
// from the runtime itself (timers, sockets, system notifications).
package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tochemey/gosky/internal/validation"
)

const (
	// HarborShift is the bit offset of the harbor id within an ID.
	HarborShift = 24
	// SlotMask extracts the slot index from an ID.
	SlotMask = 1<<HarborShift - 1
	// MaxHarbor is the largest harbor id.
	MaxHarbor = 0xff
	// MaxSlot is the largest local slot index.
	MaxSlot = SlotMask
)

// NoService is the sentinel source of runtime-originated messages.
const NoService ID = 0

// ID is a process-unique service handle.
type ID uint32

var _ validation.Validator = ID(0)

// New encodes the given harbor and slot into an ID.
//
// It returns an error when the harbor does not fit in 8 bits or when the slot
// is zero or wider than 24 bits.
func New(harbor, slot uint32) (ID, error) {
	if harbor > MaxHarbor {
		return NoService, ErrInvalidHarbor
	}
	if slot == 0 || slot > MaxSlot {
		return NoService, ErrInvalidSlot
	}
	return ID(harbor<<HarborShift | slot), nil
}

// Must is like New but panics on invalid input. It is meant for tests and
// package-level constants.
func Must(harbor, slot uint32) ID {
	id, err := New(harbor, slot)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse decodes the canonical textual form produced by String.
func Parse(s string) (ID, error) {
	if !strings.HasPrefix(s, ":") || len(s) != 9 {
		return NoService, ErrInvalidFormat
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return NoService, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	id := ID(v)
	if err := id.Validate(); err != nil {
		return NoService, err
	}
	return id, nil
}

// Harbor returns the node portion of the id.
func (id ID) Harbor() uint32 {
	return uint32(id) >> HarborShift
}

// Slot returns the local slot index of the id.
func (id ID) Slot() uint32 {
	return uint32(id) & SlotMask
}

// IsLocal reports whether the id belongs to the given harbor.
func (id ID) IsLocal(harbor uint32) bool {
	return id.Harbor() == harbor
}

// IsZero reports whether the id is the NoService sentinel.
func (id ID) IsZero() bool {
	return id == NoService
}

// String returns the canonical textual representation.
func (id ID) String() string {
	return fmt.Sprintf(":%08x", uint32(id))
}

// Validate checks that the id references a real slot. NoService is not a
// valid destination.
func (id ID) Validate() error {
	if id.Slot() == 0 {
		return ErrInvalidSlot
	}
	return nil
}
