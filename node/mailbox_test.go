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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/gosky/address"
)

func TestMailbox(t *testing.T) {
	t.Run("With overload warnings", func(t *testing.T) {
		box := newMailbox()
		for i := 0; i < 3000; i++ {
			require.True(t, box.push(newMessage(address.NoService, address.Must(1, 1), TypeText, 0, nil)))
		}

		// 3000 is past 1024 and 2048, the next warning is at 4096
		assert.Equal(t, 3000, box.overload())
		assert.Zero(t, box.overload())
		assert.Equal(t, 4096, box.threshold)

		for {
			if _, ok := box.pop(); !ok {
				break
			}
		}
		assert.Zero(t, box.overload())
		assert.Equal(t, overloadThreshold, box.threshold)
	})
	t.Run("With close", func(t *testing.T) {
		box := newMailbox()
		require.True(t, box.push(newMessage(address.NoService, address.Must(1, 1), TypeText, 1, nil)))
		require.True(t, box.push(newMessage(address.NoService, address.Must(1, 1), TypeText, 2, nil)))

		pending := box.close()
		require.Len(t, pending, 2)
		assert.EqualValues(t, 1, pending[0].Session())
		assert.EqualValues(t, 2, pending[1].Session())
		assert.False(t, box.push(newMessage(address.NoService, address.Must(1, 1), TypeText, 3, nil)))
		assert.Zero(t, box.len())
	})
}

func TestWorkerBatch(t *testing.T) {
	batch := func(weight, length int) int {
		w := &worker{weight: weight, capacity: 64}
		return w.batch(length)
	}

	assert.Equal(t, 1, batch(-1, 500))
	assert.Equal(t, 10, batch(0, 10))
	assert.Equal(t, 64, batch(0, 500))
	assert.Equal(t, 5, batch(1, 10))
	assert.Equal(t, 1, batch(3, 4))
	assert.Equal(t, 1, batch(2, 0))
}

func TestRegistry(t *testing.T) {
	reg := newRegistry(1)

	first := newProcess("a", idle(), nil)
	id, err := reg.reserve(first)
	require.NoError(t, err)
	assert.Equal(t, address.Must(1, 1), id)

	system := newProcess("logger", idle(), nil)
	system.system = true
	_, err = reg.reserve(system)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reg.live.Load())
	assert.Equal(t, 2, reg.count())

	got, ok := reg.lookup(id)
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = reg.lookup(address.Must(2, 1))
	assert.False(t, ok)

	require.NoError(t, reg.register(".first", id))
	found, ok := reg.query(".first")
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = reg.markExiting(id)
	require.True(t, ok)
	_, ok = reg.markExiting(id)
	assert.False(t, ok)
	_, ok = reg.lookup(id)
	assert.False(t, ok)
	_, ok = reg.get(id)
	assert.True(t, ok)

	assert.Zero(t, reg.free(first))
	_, ok = reg.query(".first")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.count())

	// slots are not reused right away
	next, err := reg.reserve(newProcess("b", idle(), nil))
	require.NoError(t, err)
	assert.Equal(t, address.Must(1, 3), next)
}

func TestLoader(t *testing.T) {
	l := newLoader("svc.?; ?")
	l.register("svc.echo", idle)
	l.register("plain", idle)

	_, err := l.load("echo")
	require.NoError(t, err)
	_, err = l.load("plain")
	require.NoError(t, err)
	_, err = l.load("missing")
	assert.Error(t, err)
	_, err = l.load("")
	assert.Error(t, err)
	assert.Equal(t, []string{"plain", "svc.echo"}, l.modules())
}

func TestSessions(t *testing.T) {
	p := newProcess("a", idle(), nil)
	assert.EqualValues(t, 1, p.nextSession())
	assert.EqualValues(t, 2, p.nextSession())

	p.session.Store(1<<31 - 1)
	assert.EqualValues(t, 1, p.nextSession())
}
