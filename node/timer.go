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
	"context"
	"math"
	"time"

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/internal/queue"
	"github.com/tochemey/gosky/internal/ticker"
	"github.com/tochemey/gosky/internal/timewheel"
	"github.com/tochemey/gosky/log"
)

type timerRequest struct {
	owner   *process
	session int32
	ticks   uint32
}

// timerThread owns the timing wheel. Services register timeouts through a
// lock-free inbox drained at every tick, so the wheel has a single writer.
type timerThread struct {
	node   *Node
	tick   time.Duration
	wheel  *timewheel.Wheel[timerRequest]
	inbox  *queue.Linked[timerRequest]
	origin time.Time
	// ticks advanced so far
	elapsed uint64
	logger  log.Logger
}

func newTimerThread(node *Node, tick time.Duration) *timerThread {
	return &timerThread{
		node:   node,
		tick:   tick,
		wheel:  timewheel.New[timerRequest](),
		inbox:  queue.NewLinked[timerRequest](),
		origin: time.Now(),
		logger: node.logger.With("thread", RoleTimer.String()),
	}
}

// add registers a timeout of d for owner. The delay is rounded up to whole
// ticks; d <= 0 fires immediately.
func (t *timerThread) add(owner *process, session int32, d time.Duration) {
	req := timerRequest{owner: owner, session: session}
	if d <= 0 {
		t.fire(req)
		return
	}

	ticks := (d + t.tick - 1) / t.tick
	if ticks > math.MaxUint32 {
		ticks = math.MaxUint32
	}
	req.ticks = uint32(ticks)
	t.inbox.Push(req)
}

func (t *timerThread) run(ctx context.Context) {
	tk := ticker.New(t.tick)
	tk.Start()
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tk.C:
			t.update(now)
		}
	}
}

// update catches the wheel up with the wall clock, then places the pending
// registrations relative to the current tick.
func (t *timerThread) update(now time.Time) {
	target := uint64(now.Sub(t.origin) / t.tick)
	if lag := target - t.elapsed; target > t.elapsed && lag > 1 {
		t.logger.Debugf("timer thread catching up %d ticks", lag)
	}
	for t.elapsed < target {
		t.wheel.Advance(t.fire)
		t.elapsed++
	}
	t.inbox.Drain(func(req timerRequest) {
		t.wheel.Add(req.ticks, req)
	})
}

// fire delivers the timeout to the service that registered it. The request
// holds the process rather than its id, so a service launched later into the
// same slot never sees it; an owner gone in the meantime is skipped.
func (t *timerThread) fire(req timerRequest) {
	msg := newMessage(address.NoService, req.owner.id, TypeTimeout, req.session, nil)
	_ = t.node.post(req.owner, msg)
}
