// Package chatqueue serializes chat submissions against a single backend
// endpoint.
//
// # Overview
//
// A ChatQueue owns the transcript, a FIFO of pending requests and one
// active-request slot. It guarantees:
//   - Requests reach the backend in submission order.
//   - At most one backend call is outstanding.
//   - Every submission yields exactly one assistant message (reply or
//     "Error: ..." report), spliced directly behind the user message that
//     produced it.
//   - Submitting never blocks; while a request is active the queue grows.
//
// # Architecture
//
//   - Request: a pending unit of work referencing its user message.
//   - Queue: FIFO holding requests that have not started.
//   - executor: runs one backend call under a timeout and keeps metrics.
//   - ChatQueue: the state machine tying them together.
//
// Every mutation of the pending queue or the active slot is followed by
// activateNext, which starts the head of the queue when the slot is free.
// Completions call completeActive, which splices the reply, frees the slot
// and activates again.
//
// # Example
//
//	q := chatqueue.New(backend.NewClient(cfg.APIBaseURL),
//	    chatqueue.WithTimeout(2*time.Minute),
//	    chatqueue.WithBroker(broker))
//	defer q.Close() // or q.Shutdown(ctx) to bound the wait
//
//	q.Submit("What does a High confidence GEP score mean?")
//	snap := q.Snapshot()
package chatqueue
