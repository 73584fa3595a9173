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

// Package gate provides the gate module: a TCP front service that echoes back
// whatever its clients write.
//
// The gate is launched with the address to listen on, e.g. "127.0.0.1:8888".
// Every accepted connection is started right away and owned by the gate, so
// data, close and error events all come back to it as TypeSocket messages.
package gate

import (
	"strings"

	"github.com/tochemey/gosky/internal/validation"
	"github.com/tochemey/gosky/node"
)

// Module is the name the gate service is registered under
const Module = "gate"

// Service is the TCP echo gate
type Service struct {
	listener int
	clients  map[int]string
}

var _ node.Service = (*Service)(nil)

// New creates a gate service
func New() node.Service {
	return &Service{clients: make(map[int]string)}
}

// Init binds the listener given in args and starts accepting.
func (s *Service) Init(ctx *node.Context, args string) error {
	addr := strings.TrimSpace(args)
	if err := validation.NewListenAddressValidator("gate", addr).Validate(); err != nil {
		return err
	}
	id, err := ctx.Listen(addr)
	if err != nil {
		return err
	}
	if err := ctx.StartSocket(id); err != nil {
		return err
	}
	s.listener = id
	ctx.Logger().Infof("gate listening on %s", args)
	return nil
}

// Receive handles the socket events of the listener and of the clients.
func (s *Service) Receive(ctx *node.Context, msg *node.Message) error {
	event, ok := msg.SocketEvent()
	if !ok {
		return nil
	}

	switch event.Type {
	case node.SocketAccept:
		if err := ctx.StartSocket(event.Accepted); err != nil {
			return err
		}
		s.clients[event.Accepted] = event.Addr
		ctx.Logger().Debugf("client %d connected from %s", event.Accepted, event.Addr)
	case node.SocketData:
		return ctx.Write(event.ID, event.Data)
	case node.SocketClose, node.SocketError:
		delete(s.clients, event.ID)
		if event.ID == s.listener {
			ctx.Logger().Warn("gate listener closed")
			ctx.Exit()
		}
	case node.SocketWarning:
		ctx.Logger().Warnf("client %d has %d bytes pending", event.ID, event.Pending)
	}
	return nil
}

// Release closes nothing: the node closes every socket owned by the gate.
func (s *Service) Release(ctx *node.Context) {
	ctx.Logger().Debugf("gate released with %d clients", len(s.clients))
}
