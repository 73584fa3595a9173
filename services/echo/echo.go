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

// Package echo provides the echo module: a service answering every request
// with the request payload.
package echo

import (
	"github.com/tochemey/gosky/node"
)

// Module is the name the echo service is registered under
const Module = "echo"

// Service answers TypeRequest messages with their payload.
// When launched with a name such as ".echo" it registers itself under it.
type Service struct {
	answered int
}

var _ node.Service = (*Service)(nil)

// New creates an echo service
func New() node.Service {
	return new(Service)
}

// Init registers the service under args when given
func (s *Service) Init(ctx *node.Context, args string) error {
	if args == "" {
		return nil
	}
	return ctx.Register(args)
}

// Receive answers requests
func (s *Service) Receive(ctx *node.Context, msg *node.Message) error {
	switch msg.Type() {
	case node.TypeRequest:
		s.answered++
		return ctx.Reply(msg, msg.Payload())
	case node.TypeText:
		ctx.Logger().Debugf("echo: %s", msg.Payload())
	}
	return nil
}

// Release logs the number of answered requests
func (s *Service) Release(ctx *node.Context) {
	ctx.Logger().Debugf("echo answered %d requests", s.answered)
}
