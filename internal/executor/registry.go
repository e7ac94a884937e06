// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"sync"
)

// record is the live association between a spawned child process and its
// sinks and cancellation. It exists only while the child runs.
type record struct {
	command string
	pid     int
	stdout  Sink
	stderr  Sink
	cancel  context.CancelFunc
}

// registry tracks records for all in-flight Execute calls in this process.
// Each call owns a disjoint token, added once at spawn and removed exactly
// once on completion, cancellation or failure.
type registry struct {
	mu      sync.Mutex
	next    uint64
	records map[uint64]*record
}

var active = &registry{records: make(map[uint64]*record)}

// add registers a record and returns its token. Tokens are never reused.
func (t *registry) add(r *record) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	t.records[t.next] = r

	return t.next
}

// lookup returns the record for a token, if it is still live.
func (t *registry) lookup(token uint64) (*record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[token]

	return r, ok
}

// remove deregisters a token. It is idempotent.
func (t *registry) remove(token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, token)
}

// count returns the number of live records. Must not be called with the lock held.
func (t *registry) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}

// Active returns the number of child processes currently tracked by this
// package. It is zero whenever no Execute call is in flight.
func Active() int {
	return active.count()
}
