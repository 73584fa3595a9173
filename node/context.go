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
	"fmt"
	"strings"
	"time"

	"github.com/tochemey/gosky/address"
	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/log"
)

// Context is the handle a service uses to interact with its node.
// It is bound to one service and meant to be used from its Init, Receive
// and Release calls.
type Context struct {
	node *Node
	proc *process
}

func newContext(node *Node, proc *process) *Context {
	return &Context{node: node, proc: proc}
}

// Self returns the id of the service
func (c *Context) Self() address.ID {
	return c.proc.id
}

// Harbor returns the id of the node the service runs on
func (c *Context) Harbor() uint32 {
	return c.node.harbor
}

// Logger returns a logger tagged with the service id
func (c *Context) Logger() log.Logger {
	return c.proc.logger
}

// NewSession returns a fresh positive session for a request.
func (c *Context) NewSession() int32 {
	return c.proc.nextSession()
}

// Send delivers a message to dest. Local destinations are enqueued
// immediately; remote ones go through the harbor transport. A RoutingError is
// returned when dest is unknown or gone.
func (c *Context) Send(dest address.ID, typ MessageType, session int32, payload []byte) error {
	return c.node.send(c.proc.id, dest, typ, session, payload)
}

// SendName is Send addressed by local name (".name") or by id text (":0100002a").
func (c *Context) SendName(name string, typ MessageType, session int32, payload []byte) error {
	dest, err := c.node.resolve(name)
	if err != nil {
		return err
	}
	return c.Send(dest, typ, session, payload)
}

// Reply answers msg with a TypeResponse carrying its session.
func (c *Context) Reply(msg *Message, payload []byte) error {
	return c.Send(msg.Source(), TypeResponse, msg.Session(), payload)
}

// Timeout asks the timer thread for a TypeTimeout message after d and
// returns the session it will carry. d <= 0 delivers it right away.
func (c *Context) Timeout(d time.Duration) int32 {
	session := c.proc.nextSession()
	c.node.timer.add(c.proc, session, d)
	return session
}

// Launch creates a service from module and returns its id.
func (c *Context) Launch(module, args string) (address.ID, error) {
	return c.node.create(module, args, false)
}

// Kill destroys another service. The destruction happens at the next safe point.
func (c *Context) Kill(id address.ID) error {
	return c.node.destroy(id)
}

// Exit destroys the service itself once the current message returns.
func (c *Context) Exit() {
	_ = c.node.destroy(c.proc.id)
}

// Register binds a local name such as ".db" to the service.
func (c *Context) Register(name string) error {
	return c.node.registry.register(name, c.proc.id)
}

// Query returns the id bound to a local name.
func (c *Context) Query(name string) (address.ID, error) {
	return c.node.resolve(name)
}

// Watch subscribes to the termination of a local service. A TypeTerminated
// message from target is delivered when it is retired.
func (c *Context) Watch(target address.ID) error {
	return c.node.watch(c.proc, target)
}

// Unwatch cancels a Watch
func (c *Context) Unwatch(target address.ID) {
	c.node.unwatch(c.proc, target)
}

// Log sends a text record to the logger service.
func (c *Context) Log(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if id, ok := c.node.registry.query(LoggerName); ok {
		if err := c.node.send(c.proc.id, id, TypeText, 0, []byte(text)); err == nil {
			return
		}
	}
	c.proc.logger.Info(text)
}

// Listen binds a TCP listener owned by the service. It accepts nothing until
// StartSocket is called with the returned id.
func (c *Context) Listen(addr string) (int, error) {
	return c.node.sockets.Listen(c.proc.id, addr)
}

// Connect opens an outbound TCP connection owned by the service.
func (c *Context) Connect(addr string) (int, error) {
	return c.node.sockets.Connect(c.proc.id, addr)
}

// StartSocket starts a listener or an accepted connection and makes the
// service the receiver of its events.
func (c *Context) StartSocket(id int) error {
	return c.node.sockets.Start(c.proc.id, id)
}

// Write queues data on a connection
func (c *Context) Write(id int, data []byte) error {
	return c.node.sockets.Send(id, data)
}

// CloseSocket closes a socket after its pending data is flushed
func (c *Context) CloseSocket(id int) error {
	return c.node.sockets.Close(id)
}

// Stat returns a snapshot of a local service
func (c *Context) Stat(id address.ID) (Stat, error) {
	return c.node.Stat(id)
}

func (n *Node) resolve(name string) (address.ID, error) {
	if strings.HasPrefix(name, ":") {
		return address.Parse(name)
	}
	if id, ok := n.registry.query(name); ok {
		return id, nil
	}
	return address.NoService, fmt.Errorf("%w: %s", gerrors.ErrServiceNotFound, name)
}
