package csync

import (
	"sync"
)

// Slice is a thread-safe slice implementation with generic types.
// It uses a RWMutex for concurrent read access and exclusive write access.
type Slice[T any] struct {
	data []T
	mu   sync.RWMutex
}

// NewSliceFrom creates a new thread-safe slice from existing slice
func NewSliceFrom[T any](slice []T) *Slice[T] {
	s := &Slice[T]{
		data: make([]T, len(slice)),
	}
	copy(s.data, slice)
	return s
}

// Append adds elements to the end of the slice
func (s *Slice[T]) Append(elements ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, elements...)
}

// Len returns the length of the slice
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// InsertAfterFunc inserts elements directly behind the first element matching
// the predicate. Lookup and insertion happen under one lock. It returns the
// index of the first inserted element, or -1 and false when nothing matched.
func (s *Slice[T]) InsertAfterFunc(predicate func(T) bool, elements ...T) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := -1
	for j, value := range s.data {
		if predicate(value) {
			i = j
			break
		}
	}
	if i < 0 {
		return -1, false
	}

	at := i + 1
	s.data = append(s.data, make([]T, len(elements))...)
	copy(s.data[at+len(elements):], s.data[at:])
	copy(s.data[at:], elements)
	return at, true
}

// Range iterates over all elements in the slice.
// The function f is called for each element with its index. If f returns false, iteration stops.
func (s *Slice[T]) Range(f func(index int, value T) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, value := range s.data {
		if !f(i, value) {
			break
		}
	}
}

// ToSlice returns a copy of the underlying slice
func (s *Slice[T]) ToSlice() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, len(s.data))
	copy(result, s.data)
	return result
}
