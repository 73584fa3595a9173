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

package socket

import (
	"net"

	"github.com/tochemey/gosky/address"
)

// op is anything the socket thread applies: a request from a caller or a
// result posted by one of its goroutines.
type op interface {
	apply(s *Server)
}

type opListen struct {
	id       int
	owner    address.ID
	listener net.Listener
}

func (o opListen) apply(s *Server) {
	s.register(&socket{id: o.id, owner: o.owner, kind: kindListener, listener: o.listener})
}

type opConnect struct {
	id    int
	owner address.ID
	addr  string
}

func (o opConnect) apply(s *Server) {
	sock := s.newStream(o.id, o.owner)
	sock.started = true
	s.register(sock)
	s.workers.Add(1)
	go s.dial(o.id, o.addr)
}

type opStart struct {
	id    int
	owner address.ID
}

func (o opStart) apply(s *Server) {
	sock, ok := s.sockets[o.id]
	if !ok || sock.closing {
		s.logger.Debugf("start of unknown socket %d", o.id)
		return
	}

	if sock.owner != o.owner {
		s.disown(sock)
		sock.owner = o.owner
		s.own(sock)
	}

	if sock.started {
		return
	}
	sock.started = true

	switch sock.kind {
	case kindListener:
		s.workers.Add(1)
		go s.accept(sock.id, sock.listener)
	case kindStream:
		s.startReader(sock)
	}
}

type opSend struct {
	id   int
	data []byte
}

func (o opSend) apply(s *Server) {
	sock, ok := s.sockets[o.id]
	if !ok || sock.closing || sock.kind != kindStream {
		s.logger.Debugf("send to unknown socket %d dropped", o.id)
		return
	}

	sock.outbound.Push(o.data)
	sock.pending += len(o.data)
	if sock.pending >= sock.warnAt {
		sock.warned = true
		s.emit(sock.owner, Event{Type: EventWarning, ID: sock.id, Pending: sock.pending})
		for sock.warnAt <= sock.pending {
			sock.warnAt <<= 1
		}
	}
}

type opClose struct {
	id int
}

func (o opClose) apply(s *Server) {
	sock, ok := s.sockets[o.id]
	if !ok || sock.closing {
		return
	}
	sock.closing = true

	switch {
	case sock.kind == kindListener && sock.started:
		// the accept loop reports the closure
		_ = sock.listener.Close()
	case sock.kind == kindStream && sock.conn != nil:
		// the writer flushes then reports the closure
		sock.outbound.Push(nil)
	default:
		s.remove(sock)
		s.emit(sock.owner, Event{Type: EventClose, ID: sock.id})
	}
}

type opCloseOwned struct {
	owner address.ID
}

func (o opCloseOwned) apply(s *Server) {
	set, ok := s.owned[o.owner]
	if !ok {
		return
	}
	for _, id := range set.ToSlice() {
		if sock, ok := s.sockets[id]; ok {
			s.remove(sock)
		}
	}
	delete(s.owned, o.owner)
}

type opOwned struct {
	owner address.ID
	reply chan []int
}

func (o opOwned) apply(s *Server) {
	set, ok := s.owned[o.owner]
	if !ok {
		o.reply <- nil
		return
	}
	o.reply <- set.ToSlice()
}

type resAccepted struct {
	listener int
	conn     net.Conn
}

func (r resAccepted) apply(s *Server) {
	ln, ok := s.sockets[r.listener]
	if !ok || ln.closing {
		_ = r.conn.Close()
		return
	}

	sock := s.newStream(s.allocate(), ln.owner)
	sock.conn = r.conn
	s.register(sock)
	s.startWriter(sock)
	s.emit(ln.owner, Event{
		Type:     EventAccept,
		ID:       ln.id,
		Accepted: sock.id,
		Addr:     r.conn.RemoteAddr().String(),
	})
}

type resDialed struct {
	id   int
	conn net.Conn
	err  error
}

func (r resDialed) apply(s *Server) {
	sock, ok := s.sockets[r.id]
	if !ok {
		if r.conn != nil {
			_ = r.conn.Close()
		}
		return
	}

	if r.err != nil {
		s.remove(sock)
		s.emit(sock.owner, Event{Type: EventError, ID: sock.id, Err: r.err})
		return
	}

	sock.conn = r.conn
	s.startReader(sock)
	s.startWriter(sock)
	s.emit(sock.owner, Event{Type: EventConnect, ID: sock.id, Addr: r.conn.RemoteAddr().String()})
}

type resData struct {
	id   int
	data []byte
}

func (r resData) apply(s *Server) {
	sock, ok := s.sockets[r.id]
	if !ok || sock.closing {
		return
	}
	s.emit(sock.owner, Event{Type: EventData, ID: sock.id, Data: r.data})
}

type resWritten struct {
	id int
	n  int
}

func (r resWritten) apply(s *Server) {
	sock, ok := s.sockets[r.id]
	if !ok {
		return
	}
	sock.pending -= r.n
	if sock.pending <= 0 && sock.warned {
		sock.pending = 0
		sock.warned = false
		sock.warnAt = s.warnSize
		s.emit(sock.owner, Event{Type: EventWarning, ID: sock.id})
	}
}

type resGone struct {
	id  int
	err error
}

func (r resGone) apply(s *Server) {
	sock, ok := s.sockets[r.id]
	if !ok {
		return
	}
	s.remove(sock)
	if sock.closing || isClosure(r.err) {
		s.emit(sock.owner, Event{Type: EventClose, ID: sock.id})
		return
	}
	s.emit(sock.owner, Event{Type: EventError, ID: sock.id, Err: r.err})
}

// discard releases the resources carried by an op left in the queue at shutdown.
func discard(o op) {
	switch v := o.(type) {
	case opListen:
		_ = v.listener.Close()
	case resAccepted:
		_ = v.conn.Close()
	case resDialed:
		if v.conn != nil {
			_ = v.conn.Close()
		}
	case opOwned:
		v.reply <- nil
	}
}
