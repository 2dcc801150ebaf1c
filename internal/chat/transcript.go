package chat

import (
	"github.com/billie-coop/genomechat/internal/csync"
)

// Transcript is the ordered list of messages shown to the user.
//
// Messages are appended in submission order. Replies are spliced in directly
// behind the user message that produced them, wherever that message sits at
// the moment the reply arrives.
type Transcript struct {
	messages *csync.Slice[Message]
}

// NewTranscript creates a transcript seeded with history.
func NewTranscript(history ...Message) *Transcript {
	return &Transcript{
		messages: csync.NewSliceFrom(history),
	}
}

// Append adds messages to the end of the transcript.
func (t *Transcript) Append(msgs ...Message) {
	t.messages.Append(msgs...)
}

// InsertAfter places msg immediately after the message with the given ID and
// returns its new index. If the anchor is missing the message is appended.
func (t *Transcript) InsertAfter(anchor ID, msg Message) int {
	if idx, ok := t.messages.InsertAfterFunc(matchID(anchor), msg); ok {
		return idx
	}
	t.messages.Append(msg)
	return t.messages.Len() - 1
}

// HistoryThrough returns the backend payload for a request originating at
// the given message: every turn from the start of the transcript up to and
// including that message, minus assistant error reports and blank replies.
func (t *Transcript) HistoryThrough(id ID) []Turn {
	turns := make([]Turn, 0, t.messages.Len())
	t.messages.Range(func(_ int, m Message) bool {
		if m.Replayable() {
			turns = append(turns, m.Turn())
		}
		return m.ID != id
	})
	return turns
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []Message {
	return t.messages.ToSlice()
}

// LastID returns the highest message ID in the transcript.
func (t *Transcript) LastID() ID {
	var highest ID
	t.messages.Range(func(_ int, m Message) bool {
		if m.ID > highest {
			highest = m.ID
		}
		return true
	})
	return highest
}

func matchID(id ID) func(Message) bool {
	return func(m Message) bool { return m.ID == id }
}
