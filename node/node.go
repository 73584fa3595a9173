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

// Package node is the gosky runtime.
//
// A Node multiplexes any number of services onto a fixed pool of worker
// goroutines. Each service owns a FIFO mailbox; a service with mail is queued
// once on the scheduler queue, and the worker that pops it handles a bounded
// batch of messages before returning it to idle or queueing it again. At most
// one worker holds a service at any time, so services need no locking.
//
// Next to the workers a node runs a socket thread, a timer thread and a
// monitor thread, which reports services stuck on a single message.
package node

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/gosky/address"
	"github.com/tochemey/gosky/config"
	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/harbor"
	"github.com/tochemey/gosky/internal/errorschain"
	gmetric "github.com/tochemey/gosky/internal/metric"
	"github.com/tochemey/gosky/internal/socket"
	"github.com/tochemey/gosky/log"
)

const (
	// LoggerName is the local name of the logger service.
	LoggerName = ".logger"
	// LoggerModule is the built-in logger service module.
	LoggerModule = "logger"
)

// Node is a gosky runtime instance.
type Node struct {
	config *config.Config
	harbor uint32

	logger    log.Logger
	logCloser io.Closer

	registry  *registry
	scheduler *scheduler
	loader    *loader
	sockets   *socket.Server
	timer     *timerThread
	monitor   *monitor
	transport harbor.Transport
	workers   []*worker

	meterProvider  metric.MeterProvider
	metric         *gmetric.NodeMetric
	stallHandler   StallHandler
	socketWarnSize int

	group  *errgroup.Group
	cancel context.CancelFunc

	started      *atomic.Bool
	stopped      *atomic.Bool
	bootstrapped *atomic.Bool
	done         chan struct{}
	doneOnce     sync.Once
}

// New creates a node. A nil config means the default configuration.
func New(cfg *config.Config, opts ...Option) (*Node, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.New(); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := &Node{
		config:       cfg,
		harbor:       cfg.Harbor(),
		registry:     newRegistry(cfg.Harbor()),
		scheduler:    newScheduler(cfg.Thread()),
		loader:       newLoader(cfg.ModulePath()),
		started:      atomic.NewBool(false),
		stopped:      atomic.NewBool(false),
		bootstrapped: atomic.NewBool(false),
		done:         make(chan struct{}),
	}
	n.loader.register(LoggerModule, func() Service { return new(loggerService) })

	for _, opt := range opts {
		opt.Apply(n)
	}
	return n, nil
}

// RegisterModule makes a module available to Launch and to the bootstrap.
func (n *Node) RegisterModule(name string, factory Factory) {
	n.loader.register(name, factory)
}

// Modules returns the registered module names
func (n *Node) Modules() []string {
	return n.loader.modules()
}

// Start starts the threads, the harbor transport, the logger service and
// finally the bootstrap service. A bootstrap failure stops the node and is
// returned as a CreationError.
func (n *Node) Start(ctx context.Context) error {
	if !n.started.CompareAndSwap(false, true) {
		return gerrors.ErrNodeAlreadyStarted
	}

	if n.logger == nil {
		logger, closer, err := log.Open(n.config.Logger(), n.config.LogLevel())
		if err != nil {
			n.started.Store(false)
			return err
		}
		n.logger, n.logCloser = logger, closer
	}
	n.logger = n.logger.With("harbor", n.harbor)

	if n.config.Profile() {
		provider := gmetric.NewProvider(gmetric.WithMeterProvider(n.meterProvider))
		nodeMetric, err := gmetric.NewNodeMetric(provider.Meter(), gauges{n})
		if err != nil {
			n.started.Store(false)
			return fmt.Errorf("failed to create node metrics: %w", err)
		}
		n.metric = nodeMetric
	}

	runCtx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.group, runCtx = errgroup.WithContext(runCtx)

	n.sockets = socket.NewServer(n.onSocketEvent,
		socket.WithLogger(n.logger.With("thread", RoleSocket.String())),
		socket.WithWarnSize(n.socketWarnSize))
	n.sockets.Run()

	n.workers = make([]*worker, n.config.Thread())
	records := make([]*monitorRecord, n.config.Thread())
	for i := range n.workers {
		w := newWorker(n, i)
		n.workers[i] = w
		records[i] = w.record
		n.group.Go(w.run)
	}

	n.timer = newTimerThread(n, n.config.TimerTick())
	n.group.Go(func() error {
		n.timer.run(runCtx)
		return nil
	})

	n.monitor = newMonitor(n, records)
	n.group.Go(func() error {
		n.monitor.run(runCtx)
		return nil
	})

	if n.transport == nil && n.config.HarborNATS() != "" {
		n.transport = harbor.NewNATSTransport(n.config.HarborNATS(), n.config.HarborSubject(),
			harbor.WithNATSLogger(n.logger.With("thread", "harbor")))
	}
	if n.transport != nil {
		if err := n.transport.Start(ctx, n.harbor, n.deliverRemote); err != nil {
			_ = n.Stop(ctx)
			return fmt.Errorf("failed to start harbor transport: %w", err)
		}
	}

	if module := n.config.LogService(); module != "" {
		id, err := n.create(module, "", true)
		if err != nil {
			_ = n.Stop(ctx)
			return err
		}
		if err := n.registry.register(LoggerName, id); err != nil {
			_ = n.Stop(ctx)
			return err
		}
	}

	module, args := n.config.BootstrapCommand()
	if _, err := n.create(module, args, false); err != nil {
		n.logger.Errorf("bootstrap %q failed: %v", n.config.Bootstrap(), err)
		_ = n.Stop(ctx)
		return err
	}

	n.bootstrapped.Store(true)
	if n.registry.live.Load() == 0 {
		n.closeDone()
	}

	n.logger.Infof("node started with %d workers, bootstrap %q", n.config.Thread(), n.config.Bootstrap())
	return nil
}

// Stop stops the threads, retires the remaining services and releases the
// transport and the logger. Services stuck in Receive past the deadline of
// ctx are abandoned. Stop must not be called from a service.
func (n *Node) Stop(ctx context.Context) error {
	if !n.started.Load() {
		return gerrors.ErrNodeNotStarted
	}
	if !n.stopped.CompareAndSwap(false, true) {
		return nil
	}

	chain := errorschain.New(errorschain.ReturnAll())

	n.cancel()
	n.sockets.Stop()
	n.scheduler.dispose()

	waited := make(chan error, 1)
	go func() { waited <- n.group.Wait() }()
	select {
	case err := <-waited:
		chain.AddError(err)
	case <-ctx.Done():
		chain.AddError(fmt.Errorf("workers did not stop: %w", ctx.Err()))
	}

	for _, p := range n.registry.all() {
		// a worker stuck in Receive still holds it
		if p.getState() == StateRunning {
			n.logger.Warnf("service %s abandoned while running", p.id)
			continue
		}
		n.retire(p)
	}

	if n.transport != nil {
		chain.AddStep("harbor", func() error { return n.transport.Stop(ctx) })
	}
	if n.metric != nil {
		chain.AddStep("metric", n.metric.Unregister)
	}

	n.closeDone()
	n.logger.Info("node stopped")
	chain.AddStep("logger", n.logger.Flush)
	if n.logCloser != nil {
		chain.AddStep("logger", n.logCloser.Close)
	}
	return chain.Error()
}

// Done is closed once no service other than system services is alive after
// the bootstrap, or when the node stops.
func (n *Node) Done() <-chan struct{} {
	return n.done
}

func (n *Node) closeDone() {
	n.doneOnce.Do(func() { close(n.done) })
}

func (n *Node) running() error {
	if !n.started.Load() {
		return gerrors.ErrNodeNotStarted
	}
	if n.stopped.Load() {
		return gerrors.ErrNodeStopped
	}
	return nil
}

// Launch creates a service from outside of any service.
func (n *Node) Launch(module, args string) (address.ID, error) {
	if err := n.running(); err != nil {
		return address.NoService, err
	}
	return n.create(module, args, false)
}

// Kill destroys a service
func (n *Node) Kill(id address.ID) error {
	if err := n.running(); err != nil {
		return err
	}
	return n.destroy(id)
}

// Send delivers a message from outside of any service. Its source is NoService.
func (n *Node) Send(dest address.ID, typ MessageType, session int32, payload []byte) error {
	if err := n.running(); err != nil {
		return err
	}
	return n.send(address.NoService, dest, typ, session, payload)
}

// Query returns the id bound to a local name
func (n *Node) Query(name string) (address.ID, error) {
	return n.resolve(name)
}

// Stat returns a snapshot of a local service
func (n *Node) Stat(id address.ID) (Stat, error) {
	p, ok := n.registry.get(id)
	if !ok {
		return Stat{}, gerrors.NewRoutingError(id, nil)
	}
	return p.stat(), nil
}

// Services returns the ids of the registered services in ascending order
func (n *Node) Services() []address.ID {
	procs := n.registry.all()
	ids := make([]address.ID, 0, len(procs))
	for _, p := range procs {
		ids = append(ids, p.id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ReadyLen returns the number of services waiting in the scheduler queue
func (n *Node) ReadyLen() int {
	return n.scheduler.len()
}

// Harbor returns the node id
func (n *Node) Harbor() uint32 {
	return n.harbor
}

// Logger returns the node logger. It is only set once the node has started.
func (n *Node) Logger() log.Logger {
	return n.logger
}

// gauges feeds the observable instruments
type gauges struct{ n *Node }

func (g gauges) LiveServices() int64  { return int64(g.n.registry.count()) }
func (g gauges) ReadyServices() int64 { return int64(g.n.scheduler.len()) }
