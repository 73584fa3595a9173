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

// Package bootstrap provides the default bootstrap module. It launches the
// services listed in its arguments, separated by ";", each written as
// "module args".
//
//	bootstrap: "bootstrap gate 127.0.0.1:8888; echo .echo"
package bootstrap

import (
	"strings"

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/config"
	"github.com/tochemey/gosky/node"
)

// Module is the name the bootstrap service is registered under
const Module = "bootstrap"

// Service launches the configured services and then stays idle. The node
// keeps running as long as it is alive.
type Service struct {
	launched []address.ID
}

var _ node.Service = (*Service)(nil)

// New creates a bootstrap service
func New() node.Service {
	return new(Service)
}

// Init launches every command of args in order. The first failure aborts the bootstrap.
func (s *Service) Init(ctx *node.Context, args string) error {
	for _, command := range strings.Split(args, ";") {
		module, params := config.SplitCommand(command)
		if module == "" {
			continue
		}
		id, err := ctx.Launch(module, params)
		if err != nil {
			return err
		}
		s.launched = append(s.launched, id)
		ctx.Logger().Infof("launched %s as %s", module, id)
	}
	return ctx.Register(".bootstrap")
}

// Receive ignores every message
func (s *Service) Receive(*node.Context, *node.Message) error {
	return nil
}

// Release does nothing
func (s *Service) Release(*node.Context) {}

// Launched returns the ids of the services launched by Init
func (s *Service) Launched() []address.ID {
	return s.launched
}
