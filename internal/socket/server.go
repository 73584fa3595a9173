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

// Package socket implements the socket thread of a node.
//
// A single goroutine owns the socket table. Callers, reader, writer, accept
// and dial goroutines never touch the table: they post operations and results
// into one blocking queue that the socket goroutine drains in order. Every
// state change is turned into an Event handed to the owner through the
// Handler, which must not block.
package socket

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/gosky/address"
	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/internal/queue"
	"github.com/tochemey/gosky/log"
)

const (
	// DefaultWarnSize is the outbound buffer size that triggers the first EventWarning.
	DefaultWarnSize = 1 << 20
	// DefaultReadSize is the size of the per connection read buffer.
	DefaultReadSize = 64 * 1024
)

type kind int

const (
	kindListener kind = iota
	kindStream
)

type socket struct {
	id       int
	owner    address.ID
	kind     kind
	listener net.Listener
	conn     net.Conn
	started  bool
	closing  bool
	outbound *queue.Blocking[[]byte]
	pending  int
	warnAt   int
	warned   bool
}

// Server is the socket thread.
type Server struct {
	logger   log.Logger
	handler  Handler
	warnSize int
	readSize int

	inbox   *queue.Blocking[op]
	sockets map[int]*socket
	owned   map[address.ID]mapset.Set[int]
	nextID  atomic.Int64
	running atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	dialer  net.Dialer
	workers sync.WaitGroup
	done    chan struct{}
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithWarnSize sets the outbound buffer size of the first warning.
func WithWarnSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.warnSize = size
		}
	}
}

// WithReadSize sets the read buffer size of each connection.
func WithReadSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.readSize = size
		}
	}
}

// NewServer creates a socket thread delivering events to handler.
func NewServer(handler Handler, opts ...Option) *Server {
	s := &Server{
		logger:   log.DiscardLogger,
		handler:  handler,
		warnSize: DefaultWarnSize,
		readSize: DefaultReadSize,
		inbox:    queue.NewBlocking[op](),
		sockets:  make(map[int]*socket),
		owned:    make(map[address.ID]mapset.Set[int]),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Run starts the socket thread.
func (s *Server) Run() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	go s.loop()
}

// Stop closes every socket and waits for all socket goroutines to exit.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.cancel()
	for _, o := range s.inbox.Close() {
		discard(o)
	}
	<-s.done
}

// Listen binds addr and returns the id of the listener. The listener accepts
// nothing until Start is called for it.
func (s *Server) Listen(owner address.ID, addr string) (int, error) {
	if !s.running.Load() {
		return 0, gerrors.ErrSocketClosed
	}

	lc := net.ListenConfig{Control: listenControl}
	ln, err := lc.Listen(s.ctx, "tcp", addr)
	if err != nil {
		return 0, err
	}

	id := s.allocate()
	if !s.inbox.Push(opListen{id: id, owner: owner, listener: ln}) {
		_ = ln.Close()
		return 0, gerrors.ErrSocketClosed
	}
	return id, nil
}

// Connect starts an asynchronous connection to addr and returns its id.
// The outcome is reported with EventConnect or EventError. Data sent before
// the connection is established is buffered.
func (s *Server) Connect(owner address.ID, addr string) (int, error) {
	id := s.allocate()
	if !s.inbox.Push(opConnect{id: id, owner: owner, addr: addr}) {
		return 0, gerrors.ErrSocketClosed
	}
	return id, nil
}

// Start begins accepting on a listener or reading on an accepted
// connection, and makes owner the receiver of its events.
func (s *Server) Start(owner address.ID, id int) error {
	return s.post(opStart{id: id, owner: owner})
}

// Send queues data on a connection. The slice is copied.
func (s *Server) Send(id int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return s.post(opSend{id: id, data: append([]byte(nil), data...)})
}

// Close closes a socket once its outbound buffer is flushed.
// The owner receives EventClose.
func (s *Server) Close(id int) error {
	return s.post(opClose{id: id})
}

// CloseOwned closes every socket owned by owner without emitting events.
func (s *Server) CloseOwned(owner address.ID) error {
	return s.post(opCloseOwned{owner: owner})
}

// Owned returns the ids of the sockets owned by owner.
func (s *Server) Owned(ctx context.Context, owner address.ID) ([]int, error) {
	reply := make(chan []int, 1)
	if err := s.post(opOwned{owner: owner, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case ids := <-reply:
		return ids, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, gerrors.ErrSocketClosed
	}
}

func (s *Server) post(o op) error {
	if !s.inbox.Push(o) {
		return gerrors.ErrSocketClosed
	}
	return nil
}

func (s *Server) allocate() int {
	return int(s.nextID.Add(1))
}

func (s *Server) loop() {
	defer close(s.done)
	for {
		o, ok := s.inbox.Wait()
		if !ok {
			break
		}
		o.apply(s)
	}

	for _, sock := range s.sockets {
		s.release(sock)
	}
	s.sockets = map[int]*socket{}
	s.owned = map[address.ID]mapset.Set[int]{}
	s.workers.Wait()
}

func (s *Server) register(sock *socket) {
	s.sockets[sock.id] = sock
	s.own(sock)
}

func (s *Server) own(sock *socket) {
	set, ok := s.owned[sock.owner]
	if !ok {
		set = mapset.NewThreadUnsafeSet[int]()
		s.owned[sock.owner] = set
	}
	set.Add(sock.id)
}

func (s *Server) disown(sock *socket) {
	if set, ok := s.owned[sock.owner]; ok {
		set.Remove(sock.id)
		if set.Cardinality() == 0 {
			delete(s.owned, sock.owner)
		}
	}
}

// remove drops a socket from the table and releases its resources.
func (s *Server) remove(sock *socket) {
	delete(s.sockets, sock.id)
	s.disown(sock)
	s.release(sock)
}

func (s *Server) release(sock *socket) {
	if sock.listener != nil {
		_ = sock.listener.Close()
	}
	if sock.conn != nil {
		_ = sock.conn.Close()
	}
	if sock.outbound != nil {
		sock.outbound.Close()
	}
}

func (s *Server) emit(owner address.ID, event Event) {
	if s.handler != nil {
		s.handler(owner, event)
	}
}

func (s *Server) accept(id int, ln net.Listener) {
	defer s.workers.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.inbox.Push(resGone{id: id, err: err})
			return
		}
		if !s.inbox.Push(resAccepted{listener: id, conn: conn}) {
			_ = conn.Close()
			return
		}
	}
}

func (s *Server) dial(id int, addr string) {
	defer s.workers.Done()
	conn, err := s.dialer.DialContext(s.ctx, "tcp", addr)
	if !s.inbox.Push(resDialed{id: id, conn: conn, err: err}) && conn != nil {
		_ = conn.Close()
	}
}

func (s *Server) read(id int, conn net.Conn) {
	defer s.workers.Done()
	buf := make([]byte, s.readSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if !s.inbox.Push(resData{id: id, data: append([]byte(nil), buf[:n]...)}) {
				return
			}
		}
		if err != nil {
			s.inbox.Push(resGone{id: id, err: err})
			return
		}
	}
}

// write drains the outbound queue. A nil chunk requests a graceful close.
func (s *Server) write(id int, conn net.Conn, outbound *queue.Blocking[[]byte]) {
	defer s.workers.Done()
	for {
		data, ok := outbound.Wait()
		if !ok {
			return
		}
		if data == nil {
			_ = conn.Close()
			s.inbox.Push(resGone{id: id})
			return
		}
		_, err := conn.Write(data)
		s.inbox.Push(resWritten{id: id, n: len(data)})
		if err != nil {
			_ = conn.Close()
			s.inbox.Push(resGone{id: id, err: err})
			return
		}
	}
}

func (s *Server) startReader(sock *socket) {
	s.workers.Add(1)
	go s.read(sock.id, sock.conn)
}

func (s *Server) startWriter(sock *socket) {
	s.workers.Add(1)
	go s.write(sock.id, sock.conn, sock.outbound)
}

func (s *Server) newStream(id int, owner address.ID) *socket {
	return &socket{
		id:       id,
		owner:    owner,
		kind:     kindStream,
		outbound: queue.NewBlocking[[]byte](),
		warnAt:   s.warnSize,
	}
}

func isClosure(err error) bool {
	return err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
