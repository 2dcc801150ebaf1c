package chatqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Pop())

	q.Push(&Request{UserMessageID: 1, Content: "a"})
	q.Push(&Request{UserMessageID: 2, Content: "b"})
	q.Push(&Request{UserMessageID: 3, Content: "c"})

	require.Equal(t, 3, q.Len())
	items := q.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Content)
	items[0].Content = "mutated"
	assert.Equal(t, "a", q.Items()[0].Content, "Items returns copies")

	for _, want := range []string{"a", "b", "c"} {
		got := q.Pop()
		require.NotNil(t, got)
		assert.Equal(t, want, got.Content)
	}
	assert.Equal(t, 0, q.Len())
}
