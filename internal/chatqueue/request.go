package chatqueue

import (
	"time"

	"github.com/billie-coop/genomechat/internal/chat"
)

// Request is a pending unit of work.
//
// It is created when the user submits text, becomes the active request when
// it reaches the head of the queue, and is discarded once its completion has
// produced exactly one assistant message.
type Request struct {
	// UserMessageID is the transcript message this request answers.
	UserMessageID chat.ID

	// Content is the text sent to the backend. Today it always equals the
	// displayed message.
	Content string

	// Created is the submission time.
	Created time.Time

	// Started is set when the request becomes active.
	Started time.Time
}
