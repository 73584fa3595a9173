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

	"github.com/tochemey/gosky/address"
	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/harbor"
	"github.com/tochemey/gosky/internal/socket"
)

// sendRemote hands a message for another harbor to the transport.
func (n *Node) sendRemote(msg *Message) error {
	if msg.typ == TypeSocket {
		return gerrors.NewRoutingError(msg.destination, gerrors.ErrInvalidMessage)
	}
	if n.transport == nil {
		return gerrors.NewRoutingError(msg.destination, gerrors.ErrRemoteUnreachable)
	}

	env := &harbor.Envelope{
		Source:      msg.source,
		Destination: msg.destination,
		Type:        uint32(msg.typ),
		Session:     msg.session,
		Payload:     msg.payload,
	}
	if err := n.transport.Send(context.Background(), msg.destination.Harbor(), env); err != nil {
		return gerrors.NewRoutingError(msg.destination, err)
	}
	return nil
}

// deliverRemote is the transport handler for inbound envelopes.
func (n *Node) deliverRemote(env *harbor.Envelope) {
	if !env.Destination.IsLocal(n.harbor) {
		n.logger.Warnf("dropping envelope for %s received by harbor %d", env.Destination, n.harbor)
		return
	}
	if MessageType(env.Type) == TypeSocket {
		n.logger.Warnf("dropping socket message from %s", env.Source)
		return
	}

	msg := newMessage(env.Source, env.Destination, MessageType(env.Type), env.Session, env.Payload)
	if err := n.deliver(msg, true); err != nil {
		n.logger.Debugf("failed to deliver remote message: %v", err)
	}
}

// onSocketEvent turns a socket thread notification into a TypeSocket message
// for the owner of the socket.
func (n *Node) onSocketEvent(owner address.ID, event socket.Event) {
	msg := newMessage(address.NoService, owner, TypeSocket, 0, event.Data)
	msg.event = &event
	if err := n.deliver(msg, false); err != nil {
		n.logger.Debugf("dropping socket %s event of socket %d: %v", event.Type, event.ID, err)
	}
}
