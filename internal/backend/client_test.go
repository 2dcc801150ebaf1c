package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-coop/genomechat/internal/chat"
)

func TestClient_ChatSendsHistoryAndReturnsReply(t *testing.T) {
	received := make(chan chatRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
		_, _ = w.Write([]byte(`{"reply":"hi there"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	reply, err := c.Chat(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
	got := <-received
	assert.Equal(t, []chat.Turn{{Role: chat.RoleUser, Content: "hello"}}, got.Messages)
}

func TestClient_ChatEmptyReplyIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply":""}`))
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestClient_ChatFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "detail from server",
			status:  http.StatusInternalServerError,
			body:    `{"detail":"overloaded"}`,
			wantMsg: "overloaded",
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, 500, se.StatusCode)
				assert.Equal(t, "overloaded", se.Detail)
			},
		},
		{
			name:    "no body",
			status:  http.StatusBadGateway,
			wantMsg: "request failed with status 502 (Bad Gateway)",
		},
		{
			name:    "validation list detail",
			status:  http.StatusUnprocessableEntity,
			body:    `{"detail":[{"loc":["body"],"msg":"field required"}]}`,
			wantMsg: "request failed with status 422 (Unprocessable Entity)",
		},
		{
			name:    "non json failure body",
			status:  http.StatusServiceUnavailable,
			body:    `upstream down`,
			wantMsg: "request failed with status 503 (Service Unavailable)",
		},
		{
			name:    "missing reply",
			status:  http.StatusOK,
			body:    `{"echo":"hello"}`,
			wantMsg: "invalid response from backend: missing reply field",
			check: func(t *testing.T, err error) {
				var pe *ProtocolError
				require.ErrorAs(t, err, &pe)
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				var pe *ProtocolError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, "body is not valid JSON", pe.Reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Chat(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "ping"}})
			require.Error(t, err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestClient_ChatTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Chat(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "ping"}})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "network error")
}

func TestClient_ChatHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL).Chat(ctx, []chat.Turn{{Role: chat.RoleUser, Content: "slow"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Health(context.Background()))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("  ").BaseURL())
	assert.Equal(t, "http://example.test", NewClient("http://example.test/").BaseURL())
}
