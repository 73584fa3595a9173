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

import "fmt"

// Role is the closed set of thread roles of a node.
type Role int

const (
	// RoleWorker runs service dispatches popped from the scheduler queue.
	RoleWorker Role = iota
	// RoleMain owns the node lifecycle.
	RoleMain
	// RoleSocket owns every network descriptor.
	RoleSocket
	// RoleTimer drives the time wheel.
	RoleTimer
	// RoleMonitor watches the workers for stalled services.
	RoleMonitor
)

// String returns the role name used in logs
func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	case RoleMain:
		return "main"
	case RoleSocket:
		return "socket"
	case RoleTimer:
		return "timer"
	case RoleMonitor:
		return "monitor"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}
