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
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/log"
)

// Service is the behavior of a service instance.
//
// A node never runs two calls on the same instance concurrently, so a
// service keeps its state in plain fields.
type Service interface {
	// Init is called once before the first message. args is the argument
	// string given to Launch. A returned error aborts the creation.
	Init(ctx *Context, args string) error
	// Receive handles one message. A returned error is logged and the
	// service keeps running. A panic turns the service Dead.
	Receive(ctx *Context, msg *Message) error
	// Release is called once when the service is retired.
	Release(ctx *Context)
}

// ServiceFunc adapts a message handler to the Service interface.
type ServiceFunc func(ctx *Context, msg *Message) error

var _ Service = ServiceFunc(nil)

// Init does nothing
func (f ServiceFunc) Init(*Context, string) error { return nil }

// Receive calls f
func (f ServiceFunc) Receive(ctx *Context, msg *Message) error { return f(ctx, msg) }

// Release does nothing
func (f ServiceFunc) Release(*Context) {}

// State is the scheduling state of a service
type State int32

const (
	// StateIdle means the service is neither queued nor executing.
	StateIdle State = iota
	// StateReady means the service sits in the scheduler queue.
	StateReady
	// StateRunning means a worker holds the service.
	StateRunning
	// StateDead means the service is retired.
	StateDead
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Stat is a snapshot of a service
type Stat struct {
	ID       address.ID
	Module   string
	State    State
	Mailbox  int
	Messages uint64
	// CPU is the time spent in Receive. Only accounted with profiling on.
	CPU     time.Duration
	Endless bool
	Uptime  time.Duration
}

// process is the runtime record of a service. The registry owns it; workers
// borrow it for the duration of a dispatch.
type process struct {
	id      address.ID
	module  string
	service Service
	ctx     *Context
	mailbox *mailbox
	logger  log.Logger
	created time.Time
	// system services do not keep the node alive
	system bool

	state   *atomic.Int32
	exiting *atomic.Bool
	session *atomic.Int32

	messages *atomic.Uint64
	cpu      *atomic.Duration
	endless  *atomic.Bool

	// watchMu orders Watch against retirement
	watchMu  sync.Mutex
	retired  bool
	watchers mapset.Set[address.ID]
	watching mapset.Set[address.ID]
}

func newProcess(module string, service Service, logger log.Logger) *process {
	return &process{
		module:   module,
		service:  service,
		mailbox:  newMailbox(),
		logger:   logger,
		created:  time.Now(),
		state:    atomic.NewInt32(int32(StateRunning)),
		exiting:  atomic.NewBool(false),
		session:  atomic.NewInt32(0),
		messages: atomic.NewUint64(0),
		cpu:      atomic.NewDuration(0),
		endless:  atomic.NewBool(false),
		watchers: mapset.NewSet[address.ID](),
		watching: mapset.NewSet[address.ID](),
	}
}

func (p *process) getState() State {
	return State(p.state.Load())
}

func (p *process) setState(s State) {
	p.state.Store(int32(s))
}

func (p *process) transition(from, to State) bool {
	return p.state.CompareAndSwap(int32(from), int32(to))
}

// nextSession returns a positive session, wrapping before overflow.
func (p *process) nextSession() int32 {
	for {
		current := p.session.Load()
		next := current + 1
		if next <= 0 {
			next = 1
		}
		if p.session.CompareAndSwap(current, next) {
			return next
		}
	}
}

func (p *process) stat() Stat {
	return Stat{
		ID:       p.id,
		Module:   p.module,
		State:    p.getState(),
		Mailbox:  p.mailbox.len(),
		Messages: p.messages.Load(),
		CPU:      p.cpu.Load(),
		Endless:  p.endless.Load(),
		Uptime:   time.Since(p.created),
	}
}
