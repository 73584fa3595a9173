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
	"strings"

	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/internal/xsync"
)

// Factory creates a fresh instance of a module.
type Factory func() Service

// loader resolves module names through the module path. Each pattern of the
// path is tried in order with "?" replaced by the name; the first pattern
// naming a registered factory wins.
type loader struct {
	factories *xsync.Map[string, Factory]
	patterns  []string
}

func newLoader(modulePath string) *loader {
	var patterns []string
	for _, pattern := range strings.Split(modulePath, ";") {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	if len(patterns) == 0 {
		patterns = []string{"?"}
	}
	return &loader{
		factories: xsync.NewMap[string, Factory](),
		patterns:  patterns,
	}
}

func (l *loader) register(name string, factory Factory) {
	l.factories.Set(name, factory)
}

func (l *loader) load(name string) (Service, error) {
	if name == "" {
		return nil, gerrors.ErrModuleNotFound
	}
	for _, pattern := range l.patterns {
		if factory, ok := l.factories.Get(strings.ReplaceAll(pattern, "?", name)); ok {
			if service := factory(); service != nil {
				return service, nil
			}
		}
	}
	return nil, gerrors.ErrModuleNotFound
}

func (l *loader) modules() []string {
	return l.factories.Keys(func(a, b string) bool { return a < b })
}
