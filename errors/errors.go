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

// Package errors defines the error taxonomy of a gosky node.
//
// Sentinel errors identify a failure category and are meant to be matched
// with errors.Is. The typed errors (RoutingError, CreationError, ServiceFault,
// ConfigError) carry the context of a failure and unwrap to their sentinel.
package errors

import (
	"errors"
	"fmt"

	"github.com/tochemey/gosky/address"
)

var (
	// ErrServiceNotFound is returned when a message destination does not resolve
	// to a live service.
	ErrServiceNotFound = errors.New("service not found")

	// ErrRemoteUnreachable is returned when a message targets another harbor and
	// no inter-node transport is available.
	ErrRemoteUnreachable = errors.New("remote harbor is unreachable")

	// ErrModuleNotFound is returned when the module loader cannot resolve a module
	// name on the module path.
	ErrModuleNotFound = errors.New("module not found")

	// ErrServiceInit is returned when a service fails to initialize.
	ErrServiceInit = errors.New("service initialization failed")

	// ErrServiceFault is returned when a service panics while handling a message.
	ErrServiceFault = errors.New("service fault")

	// ErrInvalidConfig is returned when the node configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNodeNotStarted is returned when an operation needs a running node.
	ErrNodeNotStarted = errors.New("node is not started")

	// ErrNodeStopped is returned when the node is shutting down or stopped.
	ErrNodeStopped = errors.New("node is stopped")

	// ErrNodeAlreadyStarted is returned when Start is called twice.
	ErrNodeAlreadyStarted = errors.New("node is already started")

	// ErrNameTaken is returned when a service name is already registered.
	ErrNameTaken = errors.New("service name is already registered")

	// ErrInvalidName is returned when a service name is malformed.
	ErrInvalidName = errors.New("invalid service name, must start with '.' followed by word characters")

	// ErrSlotsExhausted is returned when every local slot is occupied.
	ErrSlotsExhausted = errors.New("no free service slot")

	// ErrInvalidMessage is returned when a message cannot be routed as built,
	// e.g. a socket event addressed to another harbor.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrSocketNotFound is returned when a socket id is unknown to the socket thread.
	ErrSocketNotFound = errors.New("socket not found")

	// ErrSocketClosed is returned when the socket thread is stopped.
	ErrSocketClosed = errors.New("socket thread is closed")

	// ErrTransportClosed is returned when a harbor transport is used after Stop.
	ErrTransportClosed = errors.New("harbor transport is closed")
)

// RoutingError is returned when a message cannot be routed to its destination.
type RoutingError struct {
	id  address.ID
	err error
}

var _ error = (*RoutingError)(nil)

// NewRoutingError returns a RoutingError for the given destination.
// A nil cause defaults to ErrServiceNotFound.
func NewRoutingError(id address.ID, cause error) *RoutingError {
	if cause == nil {
		cause = ErrServiceNotFound
	}
	return &RoutingError{id: id, err: cause}
}

// ID returns the unreachable destination.
func (e *RoutingError) ID() address.ID {
	return e.id
}

// Error implements the standard error interface
func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing error: destination %s: %v", e.id, e.err)
}

func (e *RoutingError) Unwrap() error {
	return e.err
}

// CreationError is returned when a service cannot be created.
type CreationError struct {
	module string
	err    error
}

var _ error = (*CreationError)(nil)

// NewCreationError returns a CreationError for the given module.
func NewCreationError(module string, cause error) *CreationError {
	return &CreationError{module: module, err: cause}
}

// Module returns the module that failed to load or initialize.
func (e *CreationError) Module() string {
	return e.module
}

// Error implements the standard error interface
func (e *CreationError) Error() string {
	return fmt.Sprintf("creation error: module %q: %v", e.module, e.err)
}

func (e *CreationError) Unwrap() error {
	return e.err
}

// ServiceFault reports an unrecovered failure while a service handled a message.
type ServiceFault struct {
	id  address.ID
	err error
}

var _ error = (*ServiceFault)(nil)

// NewServiceFault returns a ServiceFault for the given service.
func NewServiceFault(id address.ID, cause error) *ServiceFault {
	return &ServiceFault{id: id, err: cause}
}

// ID returns the faulting service.
func (e *ServiceFault) ID() address.ID {
	return e.id
}

// Error implements the standard error interface
func (e *ServiceFault) Error() string {
	return fmt.Sprintf("service %s fault: %v", e.id, e.err)
}

// Unwrap returns both the ErrServiceFault sentinel and the cause.
func (e *ServiceFault) Unwrap() []error {
	return []error{ErrServiceFault, e.err}
}

// ConfigError reports every violation found in a configuration.
type ConfigError struct {
	err error
}

var _ error = (*ConfigError)(nil)

// NewConfigError returns a ConfigError wrapping the given violations.
func NewConfigError(violations error) *ConfigError {
	return &ConfigError{err: violations}
}

// Error implements the standard error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidConfig, e.err)
}

// Unwrap returns both the ErrInvalidConfig sentinel and the violations.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.err}
}
