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

package harbor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/log"
)

const (
	natsMaxRetries    = 5
	natsReconnectWait = 2 * time.Second
	natsFlushTimeout  = 2 * time.Second
)

// NATSTransport publishes envelopes on "<subject>.<harbor>" and subscribes
// to the subject of its own harbor.
type NATSTransport struct {
	url     string
	subject string
	logger  log.Logger

	mu           sync.Mutex
	conn         *nats.Conn
	subscription *nats.Subscription
	name         string
}

var _ Transport = (*NATSTransport)(nil)

// NATSOption configures a NATSTransport
type NATSOption func(*NATSTransport)

// WithNATSLogger sets the transport logger
func WithNATSLogger(logger log.Logger) NATSOption {
	return func(t *NATSTransport) { t.logger = logger }
}

// NewNATSTransport creates a transport for the NATS server at url.
func NewNATSTransport(url, subject string, opts ...NATSOption) *NATSTransport {
	t := &NATSTransport{
		url:     url,
		subject: subject,
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subject returns the subject the given harbor listens on
func (t *NATSTransport) Subject(harbor uint32) string {
	return fmt.Sprintf("%s.%d", t.subject, harbor)
}

// Name returns the connection name announced to the server
func (t *NATSTransport) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// Start connects to the server, retrying with backoff, and subscribes to the local subject.
func (t *NATSTransport) Start(ctx context.Context, local uint32, deliver Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return nil
	}

	opts := nats.GetDefaultOptions()
	opts.Url = t.url
	opts.Name = fmt.Sprintf("gosky-harbor-%d-%s", local, uuid.NewString())
	opts.ReconnectWait = natsReconnectWait
	opts.MaxReconnect = -1

	var conn *nats.Conn
	retrier := retry.NewRetrier(natsMaxRetries, 100*time.Millisecond, opts.ReconnectWait)
	if err := retrier.RunContext(ctx, func(context.Context) error {
		var err error
		conn, err = opts.Connect()
		return err
	}); err != nil {
		return fmt.Errorf("failed to connect to NATS server %s: %w", t.url, err)
	}

	subject := t.Subject(local)
	subscription, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		env, err := Unmarshal(msg.Data)
		if err != nil {
			t.logger.Warnf("dropping malformed envelope on %s: %v", subject, err)
			return
		}
		deliver(env)
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	// make sure the subscription is registered before anyone publishes to us
	if err := conn.FlushTimeout(natsFlushTimeout); err != nil {
		conn.Close()
		return err
	}

	t.conn = conn
	t.subscription = subscription
	t.name = opts.Name
	t.logger.Infof("harbor %d listening on NATS subject %s", local, subject)
	return nil
}

// Send publishes env on the subject of remote. Envelopes published while no
// node listens on that subject are lost.
func (t *NATSTransport) Send(_ context.Context, remote uint32, env *Envelope) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil || conn.IsClosed() {
		return gerrors.ErrTransportClosed
	}
	if err := conn.Publish(t.Subject(remote), Marshal(env)); err != nil {
		return fmt.Errorf("%w: %v", gerrors.ErrRemoteUnreachable, err)
	}
	return nil
}

// Stop unsubscribes and closes the connection after flushing pending publishes.
func (t *NATSTransport) Stop(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}

	var err error
	if t.subscription != nil {
		err = t.subscription.Unsubscribe()
	}
	if flushErr := t.conn.FlushTimeout(natsFlushTimeout); flushErr != nil && err == nil {
		err = flushErr
	}
	t.conn.Close()
	t.conn = nil
	t.subscription = nil
	return err
}
