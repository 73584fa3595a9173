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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("With happy path", func(t *testing.T) {
		id, err := New(1, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 1, id.Harbor())
		assert.EqualValues(t, 2, id.Slot())
		assert.Equal(t, ":01000002", id.String())
		assert.True(t, id.IsLocal(1))
		assert.False(t, id.IsLocal(2))
		assert.False(t, id.IsZero())
		assert.NoError(t, id.Validate())
	})

	t.Run("With encode/decode round trip", func(t *testing.T) {
		harbors := []uint32{0, 1, 7, 128, MaxHarbor}
		slots := []uint32{1, 2, 255, 1 << 16, MaxSlot - 1, MaxSlot}
		for _, harbor := range harbors {
			for _, slot := range slots {
				id, err := New(harbor, slot)
				require.NoError(t, err)
				assert.Equal(t, harbor, id.Harbor())
				assert.Equal(t, slot, id.Slot())

				parsed, err := Parse(id.String())
				require.NoError(t, err)
				assert.Equal(t, id, parsed)
			}
		}
	})

	t.Run("With invalid harbor", func(t *testing.T) {
		_, err := New(MaxHarbor+1, 1)
		assert.ErrorIs(t, err, ErrInvalidHarbor)
	})

	t.Run("With invalid slot", func(t *testing.T) {
		_, err := New(1, 0)
		assert.ErrorIs(t, err, ErrInvalidSlot)
		_, err = New(1, MaxSlot+1)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})

	t.Run("With NoService", func(t *testing.T) {
		assert.True(t, NoService.IsZero())
		assert.ErrorIs(t, NoService.Validate(), ErrInvalidSlot)
		assert.Equal(t, ":00000000", NoService.String())
	})

	t.Run("With invalid text", func(t *testing.T) {
		for _, s := range []string{"", "01000002", ":0100000", ":zz000002", ":01000000"} {
			_, err := Parse(s)
			assert.Error(t, err, s)
		}
	})

	t.Run("With Must panicking", func(t *testing.T) {
		assert.Panics(t, func() { Must(1, 0) })
		assert.Equal(t, ID(0x02000003), Must(2, 3))
	})
}
