package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice_InsertAfterFunc(t *testing.T) {
	tests := []struct {
		name     string
		initial  []int
		after    int
		insert   []int
		want     []int
		wantIdx  int
		wantFind bool
	}{
		{
			name:     "middle",
			initial:  []int{1, 2, 3},
			after:    2,
			insert:   []int{20},
			want:     []int{1, 2, 20, 3},
			wantIdx:  2,
			wantFind: true,
		},
		{
			name:     "tail",
			initial:  []int{1, 2, 3},
			after:    3,
			insert:   []int{30, 31},
			want:     []int{1, 2, 3, 30, 31},
			wantIdx:  3,
			wantFind: true,
		},
		{
			name:     "missing",
			initial:  []int{1, 2},
			after:    9,
			insert:   []int{90},
			want:     []int{1, 2},
			wantIdx:  -1,
			wantFind: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSliceFrom(tt.initial)
			idx, ok := s.InsertAfterFunc(func(v int) bool { return v == tt.after }, tt.insert...)
			assert.Equal(t, tt.wantFind, ok)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.want, s.ToSlice())
		})
	}
}

func TestSlice_AppendAndRange(t *testing.T) {
	s := NewSliceFrom([]string{"a"})
	s.Append("b", "c")

	var seen []string
	s.Range(func(i int, v string) bool {
		seen = append(seen, v)
		return v != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 3, s.Len())
}

func TestSlice_ToSliceIsCopy(t *testing.T) {
	src := []int{1, 2}
	s := NewSliceFrom(src)
	src[0] = 50

	out := s.ToSlice()
	out[1] = 100
	assert.Equal(t, []int{1, 2}, s.ToSlice())
}

func TestSlice_ConcurrentAppend(t *testing.T) {
	s := NewSliceFrom[int](nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Append(n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
