// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package lineq

import "sync"

// Queue is an unbounded, ordered, multi-producer/multi-consumer buffer of
// text lines with an explicit completion signal. A closed queue accepts no
// further lines but remaining lines can still be consumed.
type Queue struct {
	mu     sync.Mutex
	notify *sync.Cond
	lines  []string
	head   int
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.notify = sync.NewCond(&q.mu)

	return q
}

// Push appends a line to the queue. It reports whether the line was accepted;
// a closed queue rejects lines.
func (q *Queue) Push(line string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.lines = append(q.lines, line)
	q.notify.Signal()

	return true
}

// Pop removes and returns the oldest line. It blocks until a line is
// available or the queue is closed and drained, in which case ok is false.
func (q *Queue) Pop() (line string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head >= len(q.lines) && !q.closed {
		q.notify.Wait()
	}

	if q.head >= len(q.lines) {
		return "", false
	}

	line = q.lines[q.head]
	q.head++
	q.compact()

	return line, true
}

// TryPop removes and returns the oldest line without blocking.
// ok is false when no line is immediately available.
func (q *Queue) TryPop() (line string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.lines) {
		return "", false
	}

	line = q.lines[q.head]
	q.head++
	q.compact()

	return line, true
}

// Len returns the number of lines waiting to be consumed.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.lines) - q.head
}

// Close marks the queue complete. It is idempotent and wakes all blocked
// consumers so they can observe completion.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	q.notify.Broadcast()
}

// Closed reports whether the queue has been marked complete.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

// compact releases consumed backing storage once the whole slice is drained.
// Must be called with the lock held.
func (q *Queue) compact() {
	if q.head == len(q.lines) {
		q.lines = q.lines[:0]
		q.head = 0
	}
}
