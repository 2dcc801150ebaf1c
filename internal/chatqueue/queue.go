package chatqueue

import (
	"sync"
)

// Queue is a thread-safe FIFO of requests that have not started yet.
//
// Used by: ChatQueue (pushes on submit, pops on activation)
type Queue struct {
	items []*Request
	mutex sync.Mutex
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		items: make([]*Request, 0),
	}
}

// Push adds a request at the tail.
func (q *Queue) Push(req *Request) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.items = append(q.items, req)
}

// Pop removes and returns the head, or nil when empty.
func (q *Queue) Pop() *Request {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return head
}

// Len returns the number of pending requests.
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.items)
}

// Items returns a snapshot of all pending requests in order.
// The returned slice is a copy and safe to iterate.
func (q *Queue) Items() []Request {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	result := make([]Request, len(q.items))
	for i, item := range q.items {
		result[i] = *item
	}
	return result
}
