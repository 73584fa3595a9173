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

package metric

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names
const (
	MessagesProcessed = "gosky_messages_processed"
	DispatchDuration  = "gosky_dispatch_duration"
	Services          = "gosky_services"
	ReadyQueue        = "gosky_ready_queue"
)

// Gauges reports the values read by the observable instruments.
type Gauges interface {
	// LiveServices returns the number of registered services
	LiveServices() int64
	// ReadyServices returns the length of the scheduler queue
	ReadyServices() int64
}

// NodeMetric groups the node instruments:
//   - gosky_messages_processed (Int64Counter), attribute worker
//   - gosky_dispatch_duration  (Float64Histogram, unit ms), attribute worker
//   - gosky_services           (Int64ObservableGauge)
//   - gosky_ready_queue        (Int64ObservableGauge)
type NodeMetric struct {
	messagesProcessed metric.Int64Counter
	dispatchDuration  metric.Float64Histogram
	services          metric.Int64ObservableGauge
	readyQueue        metric.Int64ObservableGauge
	registration      metric.Registration
}

// NewNodeMetric creates the instruments and registers the gauge callback.
func NewNodeMetric(meter metric.Meter, gauges Gauges) (*NodeMetric, error) {
	var (
		m   NodeMetric
		err error
	)

	if m.messagesProcessed, err = meter.Int64Counter(
		MessagesProcessed,
		metric.WithDescription("Total number of messages handled by services"),
	); err != nil {
		return nil, err
	}

	if m.dispatchDuration, err = meter.Float64Histogram(
		DispatchDuration,
		metric.WithDescription("Time spent by a worker on one dispatch batch"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.services, err = meter.Int64ObservableGauge(
		Services,
		metric.WithDescription("Number of live services"),
	); err != nil {
		return nil, err
	}

	if m.readyQueue, err = meter.Int64ObservableGauge(
		ReadyQueue,
		metric.WithDescription("Number of services waiting in the scheduler queue"),
	); err != nil {
		return nil, err
	}

	if m.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(m.services, gauges.LiveServices())
		observer.ObserveInt64(m.readyQueue, gauges.ReadyServices())
		return nil
	}, m.services, m.readyQueue); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordDispatch records one dispatch batch of a worker.
func (m *NodeMetric) RecordDispatch(ctx context.Context, worker, messages int, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.Int("worker", worker))
	m.messagesProcessed.Add(ctx, int64(messages), attrs)
	m.dispatchDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// Unregister removes the gauge callback
func (m *NodeMetric) Unregister() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
