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
	"fmt"

	"github.com/tochemey/gosky/address"
)

// EventType identifies a socket event
type EventType int

const (
	// EventData carries bytes read from a connection.
	EventData EventType = iota + 1
	// EventConnect reports an outbound connection established by Connect.
	EventConnect
	// EventAccept reports a connection accepted by a listener. The new
	// connection must be started before it delivers data.
	EventAccept
	// EventClose reports a connection or listener that is gone.
	EventClose
	// EventError reports a connection that failed. The connection is gone.
	EventError
	// EventWarning reports the outbound buffer size of a connection. It is
	// emitted when the buffer grows past 1 MiB and at each doubling, and once
	// with a zero size when the buffer has drained.
	EventWarning
)

var eventNames = map[EventType]string{
	EventData:    "data",
	EventConnect: "connect",
	EventAccept:  "accept",
	EventClose:   "close",
	EventError:   "error",
	EventWarning: "warning",
}

// String returns the event type name
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is a socket thread notification delivered to the owner of a socket.
type Event struct {
	// Type is the kind of event
	Type EventType
	// ID is the socket the event refers to. For EventAccept it is the listener.
	ID int
	// Accepted is the id of the accepted connection for EventAccept
	Accepted int
	// Data holds the bytes read for EventData
	Data []byte
	// Addr is the remote address for EventConnect and EventAccept
	Addr string
	// Pending is the outbound buffer size in bytes for EventWarning
	Pending int
	// Err is the cause of EventError
	Err error
}

// Handler receives the events of the sockets owned by owner.
// It is called from the socket thread and must not block.
type Handler func(owner address.ID, event Event)
