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

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/internal/socket"
)

// MessageType tells a service how to interpret a message.
type MessageType uint32

const (
	// TypeText is a plain text message. The logger service prints it.
	TypeText MessageType = iota
	// TypeResponse answers a request carrying the same session.
	TypeResponse
	// TypeClient is a message from a client connection.
	TypeClient
	// TypeSystem is a control message.
	TypeSystem
	// TypeHarbor is a message exchanged with remote harbors.
	TypeHarbor
	// TypeSocket carries a socket event. Its source is NoService.
	TypeSocket
	// TypeError reports that a message with the same session could not be
	// delivered or handled. Its source is the failed destination.
	TypeError
	// TypeTimeout reports the expiry of a timer. Its source is NoService.
	TypeTimeout
	// TypeTerminated reports that a watched service is gone. Its source is
	// the terminated service.
	TypeTerminated
	// TypeRequest expects a TypeResponse carrying the same session.
	TypeRequest
)

var typeNames = [...]string{
	TypeText:       "text",
	TypeResponse:   "response",
	TypeClient:     "client",
	TypeSystem:     "system",
	TypeHarbor:     "harbor",
	TypeSocket:     "socket",
	TypeError:      "error",
	TypeTimeout:    "timeout",
	TypeTerminated: "terminated",
	TypeRequest:    "request",
}

// String returns the name of the message type
func (t MessageType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("MessageType(%d)", uint32(t))
}

// Message is the unit of communication between services.
// It is immutable once enqueued.
type Message struct {
	source      address.ID
	destination address.ID
	typ         MessageType
	session     int32
	payload     []byte
	event       *socket.Event
}

func newMessage(source, destination address.ID, typ MessageType, session int32, payload []byte) *Message {
	return &Message{
		source:      source,
		destination: destination,
		typ:         typ,
		session:     session,
		payload:     payload,
	}
}

// Source returns the sender. NoService for timer, socket and node originated messages.
func (m *Message) Source() address.ID { return m.source }

// Destination returns the receiver
func (m *Message) Destination() address.ID { return m.destination }

// Type returns the message type
func (m *Message) Type() MessageType { return m.typ }

// Session returns the session used to pair requests and responses. Zero means none.
func (m *Message) Session() int32 { return m.session }

// Payload returns the message bytes. The slice must not be modified.
func (m *Message) Payload() []byte { return m.payload }

// SocketEvent returns the socket event of a TypeSocket message
func (m *Message) SocketEvent() (socket.Event, bool) {
	if m.event == nil {
		return socket.Event{}, false
	}
	return *m.event, true
}

// String renders the message header for logs
func (m *Message) String() string {
	return fmt.Sprintf("%s->%s %s session=%d size=%d", m.source, m.destination, m.typ, m.session, len(m.payload))
}

// SocketEvent is the payload of a TypeSocket message
type SocketEvent = socket.Event

// SocketEventType identifies a socket event
type SocketEventType = socket.EventType

// Socket event types
const (
	SocketData    = socket.EventData
	SocketConnect = socket.EventConnect
	SocketAccept  = socket.EventAccept
	SocketClose   = socket.EventClose
	SocketError   = socket.EventError
	SocketWarning = socket.EventWarning
)
