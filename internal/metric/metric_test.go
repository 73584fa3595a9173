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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewProviderUsesGlobalProvider(t *testing.T) {
	previous := otel.GetMeterProvider()
	recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
	otel.SetMeterProvider(recorder)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	provider := NewProvider()
	require.NotNil(t, provider.Meter())
	assert.Equal(t, []string{instrumentationName}, recorder.called)
}

func TestWithMeterProvider(t *testing.T) {
	custom := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
	provider := NewProvider(WithMeterProvider(custom), WithMeterProvider(nil))
	require.NotNil(t, provider.Meter())
	assert.Equal(t, custom, provider.meterProvider)
	assert.Equal(t, []string{instrumentationName}, custom.called)
}

func TestNodeMetric(t *testing.T) {
	meter := &recorderMeter{Meter: noop.NewMeterProvider().Meter("test")}
	m, err := NewNodeMetric(meter, staticGauges{services: 3, ready: 1})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.ElementsMatch(t, []string{MessagesProcessed, DispatchDuration, Services, ReadyQueue}, meter.instruments)
	assert.Equal(t, 1, meter.callbacks)

	m.RecordDispatch(context.Background(), 0, 4, 2*time.Millisecond)
	assert.NoError(t, m.Unregister())
}

type staticGauges struct {
	services int64
	ready    int64
}

func (g staticGauges) LiveServices() int64  { return g.services }
func (g staticGauges) ReadyServices() int64 { return g.ready }

type recorderMeterProvider struct {
	metric.MeterProvider
	called []string
}

func (p *recorderMeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	p.called = append(p.called, name)
	return p.MeterProvider.Meter(name, opts...)
}

type recorderMeter struct {
	metric.Meter
	instruments []string
	callbacks   int
}

func (m *recorderMeter) Int64Counter(name string, opts ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	m.instruments = append(m.instruments, name)
	return m.Meter.Int64Counter(name, opts...)
}

func (m *recorderMeter) Float64Histogram(name string, opts ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	m.instruments = append(m.instruments, name)
	return m.Meter.Float64Histogram(name, opts...)
}

func (m *recorderMeter) Int64ObservableGauge(name string, opts ...metric.Int64ObservableGaugeOption) (metric.Int64ObservableGauge, error) {
	m.instruments = append(m.instruments, name)
	return m.Meter.Int64ObservableGauge(name, opts...)
}

func (m *recorderMeter) RegisterCallback(f metric.Callback, instruments ...metric.Observable) (metric.Registration, error) {
	m.callbacks++
	return m.Meter.RegisterCallback(f, instruments...)
}
