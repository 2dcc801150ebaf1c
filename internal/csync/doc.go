// Package csync provides thread-safe concurrent data structures.
//
// Slice is a generic, RWMutex-guarded slice. Besides appending and copying
// it can look up an element and insert behind it under a single lock, which
// is what an ordered chat transcript needs when replies are spliced in
// relative to an existing message:
//
//	msgs := csync.NewSliceFrom(history)
//	msgs.Append(question)
//	msgs.InsertAfterFunc(func(m Message) bool { return m.ID == question.ID }, reply)
package csync
