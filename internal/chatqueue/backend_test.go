package chatqueue

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-coop/genomechat/internal/backend"
	"github.com/billie-coop/genomechat/internal/chat"
)

type chatPayload struct {
	Messages []chat.Turn `json:"messages"`
}

func TestChatQueue_EndToEndWithHTTPBackend(t *testing.T) {
	var (
		mu  sync.Mutex
		got chatPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"reply":"hi there"}`))
	}))
	defer srv.Close()

	q := New(backend.NewClient(srv.URL))
	defer q.Close()

	_, err := q.Submit("hello")
	require.NoError(t, err)
	drain(t, q)

	mu.Lock()
	assert.Equal(t, []chat.Turn{{Role: chat.RoleUser, Content: "hello"}}, got.Messages)
	mu.Unlock()
	assert.Equal(t, []string{"user:hello", "assistant:hi there"}, transcript(q))

	snap := q.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Zero(t, snap.ActiveMessageID)
	assert.Empty(t, snap.LastError)
}

func TestChatQueue_HTTPFailureScenario(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"overloaded"}`))
			return
		}
		_, _ = w.Write([]byte(`{"reply":"pong"}`))
	}))
	defer srv.Close()

	q := New(backend.NewClient(srv.URL))
	defer q.Close()

	_, _ = q.Submit("ping")
	_, _ = q.Submit("ping again")
	drain(t, q)

	assert.Equal(t, []string{
		"user:ping", "assistant:Error: overloaded",
		"user:ping again", "assistant:pong",
	}, transcript(q))
	assert.EqualValues(t, 2, calls.Load())
}

func TestChatQueue_MissingReplyIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"echo":"hello"}`))
	}))
	defer srv.Close()

	q := New(backend.NewClient(srv.URL))
	defer q.Close()

	_, _ = q.Submit("hello")
	drain(t, q)

	msgs := q.Snapshot().Messages
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].IsError())
	assert.Equal(t, "Error: invalid response from backend: missing reply field", msgs[1].Content)
	assert.Equal(t, "invalid response from backend: missing reply field", q.Snapshot().LastError)
}
