package state

import (
	"context"
	"errors"
	"sync"

	"InkBoard/internal/render"
)

// ErrQueueClosed is returned by Send and Recv once the queue is closed.
var ErrQueueClosed = errors.New("state: task queue closed")

type TaskKind int

const (
	// TaskUpdateStrokeWithImages replaces the images of a stroke.
	TaskUpdateStrokeWithImages TaskKind = iota
	// TaskAppendImagesToStroke adds images to a stroke, e.g. while drawing.
	TaskAppendImagesToStroke
	// TaskRenderFailed returns a busy stroke to dirty.
	TaskRenderFailed
	// TaskQuit stops the consumer loop.
	TaskQuit
)

// Task is a message from a background job to the store owner.
type Task struct {
	Kind    TaskKind
	Key     Handle
	Images  []render.Image
	Version uint64
}

// TaskQueue is an unbounded multi-producer single-consumer queue.
type TaskQueue struct {
	mu     sync.Mutex
	items  []Task
	closed bool
	notify chan struct{}
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{notify: make(chan struct{}, 1)}
}

// Send enqueues t without blocking.
func (q *TaskQueue) Send(t Task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, t)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// TryRecv dequeues a task if one is pending.
func (q *TaskQueue) TryRecv() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Task{}, false
	}
	t := q.items[0]
	q.items[0] = Task{}
	q.items = q.items[1:]
	return t, true
}

// Recv blocks until a task arrives, the queue is closed and drained, or
// ctx is done.
func (q *TaskQueue) Recv(ctx context.Context) (Task, error) {
	for {
		if t, ok := q.TryRecv(); ok {
			return t, nil
		}
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Task{}, ErrQueueClosed
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return Task{}, ctx.Err()
		}
	}
}

// Close rejects further sends. Pending tasks can still be received.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
