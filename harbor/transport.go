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

// Package harbor connects the nodes of a multi node deployment.
//
// Every node owns a harbor id encoded in the upper bits of its service ids.
// Messages to a service of another harbor are wrapped in an Envelope and
// handed to a Transport, which delivers them to the Transport of the remote
// node. Two transports are provided: an in-process hub for tests and
// embedded deployments, and a NATS transport.
package harbor

import (
	"context"

	"github.com/tochemey/gosky/address"
)

// Envelope is a message in transit between two harbors.
type Envelope struct {
	Source      address.ID
	Destination address.ID
	Type        uint32
	Session     int32
	Payload     []byte
}

// Handler receives the envelopes addressed to the local harbor.
// It must not block.
type Handler func(env *Envelope)

// Transport moves envelopes between harbors.
type Transport interface {
	// Start attaches the transport to the local harbor. Inbound envelopes are
	// passed to deliver until Stop is called.
	Start(ctx context.Context, local uint32, deliver Handler) error
	// Send delivers env to the remote harbor.
	Send(ctx context.Context, remote uint32, env *Envelope) error
	// Stop detaches the transport.
	Stop(ctx context.Context) error
}
