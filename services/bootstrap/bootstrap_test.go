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

package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/gosky/config"
	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/log"
	"github.com/tochemey/gosky/node"
	"github.com/tochemey/gosky/services/echo"
)

func TestBootstrap(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("With launched services", func(t *testing.T) {
		cfg, err := config.New(config.WithBootstrap("bootstrap echo .first; ; echo .second"))
		require.NoError(t, err)
		n, err := node.New(cfg,
			node.WithLogger(log.DiscardLogger),
			node.WithModule(Module, New),
			node.WithModule(echo.Module, echo.New))
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, n.Start(ctx))

		for _, name := range []string{".first", ".second", ".bootstrap"} {
			_, err := n.Query(name)
			assert.NoError(t, err, name)
		}
		// logger, bootstrap and two echo services
		assert.Len(t, n.Services(), 4)
		require.NoError(t, n.Stop(ctx))
	})
	t.Run("With unknown module", func(t *testing.T) {
		cfg, err := config.New(config.WithBootstrap("bootstrap missing"))
		require.NoError(t, err)
		n, err := node.New(cfg, node.WithLogger(log.DiscardLogger), node.WithModule(Module, New))
		require.NoError(t, err)

		err = n.Start(context.Background())
		assert.ErrorIs(t, err, gerrors.ErrModuleNotFound)
		assert.ErrorIs(t, err, gerrors.ErrServiceInit)
	})
}
