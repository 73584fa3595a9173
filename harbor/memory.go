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

package harbor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/gosky/errors"
)

// MemoryHub links the transports of nodes running in the same process.
type MemoryHub struct {
	mu       sync.RWMutex
	handlers map[uint32]Handler
}

// NewMemoryHub creates an empty hub
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{handlers: make(map[uint32]Handler)}
}

// Transport returns a new transport attached to the hub.
func (h *MemoryHub) Transport() *MemoryTransport {
	return &MemoryTransport{hub: h, started: atomic.NewBool(false)}
}

func (h *MemoryHub) attach(harbor uint32, handler Handler) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.handlers[harbor]; ok {
		return fmt.Errorf("harbor %d is already attached", harbor)
	}
	h.handlers[harbor] = handler
	return nil
}

func (h *MemoryHub) detach(harbor uint32) {
	h.mu.Lock()
	delete(h.handlers, harbor)
	h.mu.Unlock()
}

func (h *MemoryHub) handler(harbor uint32) (Handler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	handler, ok := h.handlers[harbor]
	return handler, ok
}

// MemoryTransport is a Transport over a MemoryHub. Envelopes go through the
// wire codec so that the payload is never shared between nodes.
type MemoryTransport struct {
	hub     *MemoryHub
	local   uint32
	started *atomic.Bool
}

var _ Transport = (*MemoryTransport)(nil)

// Start attaches the transport to the hub under local
func (t *MemoryTransport) Start(_ context.Context, local uint32, deliver Handler) error {
	if err := t.hub.attach(local, deliver); err != nil {
		return err
	}
	t.local = local
	t.started.Store(true)
	return nil
}

// Send hands env to the transport attached under remote
func (t *MemoryTransport) Send(_ context.Context, remote uint32, env *Envelope) error {
	if !t.started.Load() {
		return gerrors.ErrTransportClosed
	}
	deliver, ok := t.hub.handler(remote)
	if !ok {
		return fmt.Errorf("%w: harbor %d", gerrors.ErrRemoteUnreachable, remote)
	}
	copied, err := Unmarshal(Marshal(env))
	if err != nil {
		return err
	}
	deliver(copied)
	return nil
}

// Stop detaches the transport
func (t *MemoryTransport) Stop(context.Context) error {
	if t.started.CompareAndSwap(true, false) {
		t.hub.detach(t.local)
	}
	return nil
}
