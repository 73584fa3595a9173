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
	"github.com/tochemey/gosky/log"
)

// loggerService writes the TypeText messages it receives to the node logger.
type loggerService struct {
	logger log.Logger
}

var _ Service = (*loggerService)(nil)

func (s *loggerService) Init(ctx *Context, _ string) error {
	s.logger = ctx.node.logger.With("service", ctx.Self().String())
	return nil
}

func (s *loggerService) Receive(_ *Context, msg *Message) error {
	if msg.Type() != TypeText {
		return nil
	}
	s.logger.With("source", msg.Source().String()).Info(string(msg.Payload()))
	return nil
}

func (s *loggerService) Release(*Context) {
	_ = s.logger.Flush()
}
