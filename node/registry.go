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
	"regexp"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/gosky/address"
	gerrors "github.com/tochemey/gosky/errors"
	"github.com/tochemey/gosky/internal/validation"
	"github.com/tochemey/gosky/internal/xsync"
)

// local names start with a dot, like ".logger"
var nameRegexp = regexp.MustCompile(`^\.[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// registry maps slots to services and local names to ids.
type registry struct {
	harbor uint32

	mu     sync.RWMutex
	slots  map[uint32]*process
	cursor uint32

	names *xsync.Map[string, address.ID]
	// live counts the non system services
	live *atomic.Int64
}

func newRegistry(harbor uint32) *registry {
	return &registry{
		harbor: harbor,
		slots:  make(map[uint32]*process),
		names:  xsync.NewMap[string, address.ID](),
		live:   atomic.NewInt64(0),
	}
}

// reserve assigns the next free slot to p. The cursor only moves forward and
// wraps past MaxSlot, so a freed slot is reused as late as possible.
func (r *registry) reserve(p *process) (address.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.slots) >= address.MaxSlot {
		return address.NoService, gerrors.ErrSlotsExhausted
	}

	for {
		r.cursor++
		if r.cursor > address.MaxSlot {
			r.cursor = 1
		}
		if _, taken := r.slots[r.cursor]; !taken {
			break
		}
	}

	id, err := address.New(r.harbor, r.cursor)
	if err != nil {
		return address.NoService, err
	}

	p.id = id
	r.slots[r.cursor] = p
	if !p.system {
		r.live.Inc()
	}
	return id, nil
}

// lookup returns a service that accepts messages.
func (r *registry) lookup(id address.ID) (*process, bool) {
	if !id.IsLocal(r.harbor) {
		return nil, false
	}
	r.mu.RLock()
	p, ok := r.slots[id.Slot()]
	r.mu.RUnlock()
	if !ok || p.id != id || p.exiting.Load() {
		return nil, false
	}
	return p, true
}

// get returns a registered service, exiting or not.
func (r *registry) get(id address.ID) (*process, bool) {
	if !id.IsLocal(r.harbor) {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.slots[id.Slot()]
	if !ok || p.id != id {
		return nil, false
	}
	return p, true
}

// markExiting flags the service under the write lock so that no lookup
// succeeds afterwards. It returns false if the service is unknown or already exiting.
func (r *registry) markExiting(id address.ID) (*process, bool) {
	if !id.IsLocal(r.harbor) {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.slots[id.Slot()]
	if !ok || p.id != id || p.exiting.Load() {
		return nil, false
	}
	p.exiting.Store(true)
	return p, true
}

// free releases the slot and the names of a retired service.
// It returns the number of live services left.
func (r *registry) free(p *process) int64 {
	r.names.DeleteFunc(func(_ string, id address.ID) bool { return id == p.id })

	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.slots[p.id.Slot()]; !ok || current != p {
		return r.live.Load()
	}
	delete(r.slots, p.id.Slot())
	if p.system {
		return r.live.Load()
	}
	return r.live.Dec()
}

func (r *registry) register(name string, id address.ID) error {
	if err := validation.NewPatternValidator(nameRegexp, name, gerrors.ErrInvalidName).Validate(); err != nil {
		return err
	}
	if current, stored := r.names.SetIfAbsent(name, id); !stored && current != id {
		return gerrors.ErrNameTaken
	}
	return nil
}

func (r *registry) query(name string) (address.ID, bool) {
	return r.names.Get(name)
}

// all returns the registered services ordered by id
func (r *registry) all() []*process {
	r.mu.RLock()
	procs := make([]*process, 0, len(r.slots))
	for _, p := range r.slots {
		procs = append(procs, p)
	}
	r.mu.RUnlock()
	sort.Slice(procs, func(i, j int) bool { return procs[i].id < procs[j].id })
	return procs
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
