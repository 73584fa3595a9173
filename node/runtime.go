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
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/tochemey/gosky/address"
	gerrors "github.com/tochemey/gosky/errors"
)

// create instantiates module, runs its Init in the calling goroutine and makes
// the service schedulable. Messages sent to the service during Init wait in
// its mailbox: the service is reserved in the Running state so no worker can
// pick it before Init returns.
func (n *Node) create(module, args string, system bool) (address.ID, error) {
	if n.stopped.Load() {
		return address.NoService, gerrors.NewCreationError(module, gerrors.ErrNodeStopped)
	}

	service, err := n.loader.load(module)
	if err != nil {
		return address.NoService, gerrors.NewCreationError(module, err)
	}

	p := newProcess(module, service, n.logger)
	p.system = system
	id, err := n.registry.reserve(p)
	if err != nil {
		return address.NoService, gerrors.NewCreationError(module, err)
	}
	p.logger = n.logger.With("service", id.String(), "module", module)
	p.ctx = newContext(n, p)

	if err := n.initService(p, args); err != nil {
		p.logger.Errorf("failed to initialize: %v", err)
		n.retire(p)
		return address.NoService, gerrors.NewCreationError(module, fmt.Errorf("%w: %w", gerrors.ErrServiceInit, err))
	}

	p.logger.Debugf("service launched with args %q", args)
	// Once Idle the service may be held by another worker, so only the
	// atomic length of the mailbox is read here.
	p.setState(StateIdle)
	if (p.mailbox.len() > 0 || p.exiting.Load()) && p.transition(StateIdle, StateReady) {
		n.schedule(p)
	}
	return id, nil
}

// destroy marks a service as exiting. Sends to it fail from now on; the
// worker that next holds it retires it instead of running it.
func (n *Node) destroy(id address.ID) error {
	if !id.IsLocal(n.harbor) {
		return gerrors.NewRoutingError(id, gerrors.ErrRemoteUnreachable)
	}

	p, ok := n.registry.markExiting(id)
	if !ok {
		return gerrors.NewRoutingError(id, nil)
	}
	if p.transition(StateIdle, StateReady) {
		n.schedule(p)
	}
	return nil
}

func (n *Node) schedule(p *process) {
	if err := n.scheduler.push(p); err != nil {
		// the node is stopping; Stop retires what is left
		p.setState(StateIdle)
	}
}

func (n *Node) send(source, dest address.ID, typ MessageType, session int32, payload []byte) error {
	return n.deliver(newMessage(source, dest, typ, session, payload), true)
}

// deliver routes msg and, when bounce is set, answers an undeliverable
// request with a TypeError message.
func (n *Node) deliver(msg *Message, bounce bool) error {
	var err error
	switch dest := msg.destination; {
	case dest.IsZero():
		err = gerrors.NewRoutingError(dest, nil)
	case !dest.IsLocal(n.harbor):
		err = n.sendRemote(msg)
	default:
		if p, ok := n.registry.lookup(dest); ok && n.post(p, msg) {
			return nil
		}
		err = gerrors.NewRoutingError(dest, nil)
	}

	if err != nil && bounce {
		n.bounce(msg)
	}
	return err
}

// post pushes msg to the mailbox of p and wakes it. It fails once p is
// exiting or retired.
func (n *Node) post(p *process, msg *Message) bool {
	if p.exiting.Load() || !p.mailbox.push(msg) {
		return false
	}
	if p.transition(StateIdle, StateReady) {
		n.schedule(p)
	}
	return true
}

// bounce tells the source of a request that it will never be answered.
// Messages without session and error messages are dropped silently.
func (n *Node) bounce(msg *Message) {
	if msg.session == 0 || msg.typ == TypeError || msg.source.IsZero() || msg.source == msg.destination {
		return
	}
	_ = n.deliver(newMessage(msg.destination, msg.source, TypeError, msg.session, nil), false)
}

// dispatch runs one batch of the mailbox of p on behalf of w.
func (n *Node) dispatch(w *worker, p *process) {
	p.setState(StateRunning)
	if p.exiting.Load() {
		n.retire(p)
		return
	}

	var (
		start   = time.Now()
		batch   = w.batch(p.mailbox.len())
		handled int
		fault   error
	)

	for handled < batch && fault == nil && !p.exiting.Load() {
		msg, ok := p.mailbox.pop()
		if !ok {
			break
		}
		if length := p.mailbox.overload(); length > 0 {
			p.logger.Warnf("mailbox overload, length = %d", length)
		}
		handled++

		if err := n.handle(w, p, msg); err != nil {
			fault = err
			n.bounce(msg)
		}
	}

	if n.metric != nil && handled > 0 {
		n.metric.RecordDispatch(context.Background(), w.index, handled, time.Since(start))
	}

	if fault != nil {
		p.logger.With("error", fault).Error("service fault, retiring service")
		n.retire(p)
		return
	}
	if p.exiting.Load() {
		n.retire(p)
		return
	}

	// Once Idle the service may be held by another worker, so only the
	// atomic length of the mailbox is read here.
	p.setState(StateIdle)
	if (p.mailbox.len() > 0 || p.exiting.Load()) && p.transition(StateIdle, StateReady) {
		n.schedule(p)
	}
}

// handle delivers one message. It returns a ServiceFault when Receive panics;
// a plain error returned by Receive is only logged.
func (n *Node) handle(w *worker, p *process, msg *Message) (fault error) {
	w.record.begin(p.id, msg.source)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			fault = gerrors.NewServiceFault(p.id, panicError(r))
		}
		if n.config.Profile() {
			p.cpu.Add(time.Since(start))
		}
		p.messages.Inc()
		w.record.end()
	}()

	if err := p.service.Receive(p.ctx, msg); err != nil {
		p.logger.Warnf("failed to handle %s: %v", msg, err)
	}
	return nil
}

func (n *Node) initService(p *process, args string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return p.service.Init(p.ctx, args)
}

func (n *Node) releaseService(p *process) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("release failed: %v", panicError(r))
		}
	}()
	p.service.Release(p.ctx)
}

// retire turns p Dead. The remaining mail is bounced, the service is
// released, its sockets are closed and its watchers are told.
func (n *Node) retire(p *process) {
	n.registry.markExiting(p.id)
	p.setState(StateDead)

	for _, msg := range p.mailbox.close() {
		n.bounce(msg)
	}

	n.releaseService(p)
	if n.sockets != nil {
		_ = n.sockets.CloseOwned(p.id)
	}

	p.watchMu.Lock()
	p.retired = true
	watchers := p.watchers.ToSlice()
	p.watchMu.Unlock()

	for _, target := range p.watching.ToSlice() {
		if t, ok := n.registry.get(target); ok {
			t.watchers.Remove(p.id)
		}
	}
	for _, watcher := range watchers {
		_ = n.deliver(newMessage(p.id, watcher, TypeTerminated, 0, nil), false)
	}

	left := n.registry.free(p)
	p.logger.Debugf("service retired after %d messages", p.messages.Load())
	if left == 0 && !p.system && n.bootstrapped.Load() {
		n.logger.Info("no service left")
		n.closeDone()
	}
}

func (n *Node) watch(self *process, target address.ID) error {
	if target == self.id {
		return fmt.Errorf("%w: a service cannot watch itself", gerrors.ErrInvalidMessage)
	}

	p, ok := n.registry.lookup(target)
	if !ok {
		return gerrors.NewRoutingError(target, nil)
	}

	p.watchMu.Lock()
	defer p.watchMu.Unlock()
	if p.retired {
		return gerrors.NewRoutingError(target, nil)
	}
	p.watchers.Add(self.id)
	self.watching.Add(target)
	return nil
}

func (n *Node) unwatch(self *process, target address.ID) {
	self.watching.Remove(target)
	if p, ok := n.registry.get(target); ok {
		p.watchers.Remove(self.id)
	}
}

// panicError enriches a recovered value with the location of the panic.
func panicError(r any) error {
	pc, fn, line, _ := runtime.Caller(3)
	if err, ok := r.(error); ok {
		var fault *gerrors.ServiceFault
		if errors.As(err, &fault) {
			return err
		}
		return fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line)
	}
	return fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line)
}
