package slices

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkToMaxLen(t *testing.T) {
	tests := map[string]struct {
		s        []int
		maxLen   int
		expected [][]int
	}{
		"empty": {
			s:        []int{},
			maxLen:   3,
			expected: [][]int{},
		},
		"exact multiple": {
			s:        []int{1, 2, 3, 4},
			maxLen:   2,
			expected: [][]int{{1, 2}, {3, 4}},
		},
		"remainder": {
			s:        []int{1, 2, 3, 4, 5, 6, 7},
			maxLen:   3,
			expected: [][]int{{1, 2, 3}, {4, 5, 6}, {7}},
		},
		"maxLen larger than input": {
			s:        []int{1, 2},
			maxLen:   5,
			expected: [][]int{{1, 2}},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			actual := ChunkToMaxLen(tc.s, tc.maxLen)
			assert.Equal(t, tc.expected, actual)
			concatenated := []int{}
			for _, chunk := range actual {
				concatenated = append(concatenated, chunk...)
			}
			assert.Equal(t, tc.s, concatenated)
		})
	}
}

func TestChunkToMaxLen_DoesNotAlias(t *testing.T) {
	s := []int{1, 2, 3}
	chunks := ChunkToMaxLen(s, 2)
	chunks[0][0] = 100
	assert.Equal(t, 1, s[0])
}

func TestChunkToMaxLen_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { ChunkToMaxLen([]int{1}, 0) })
}


func TestMap(t *testing.T) {
	toString := func(val int) string { return fmt.Sprintf("%d", val) }
	assert.Equal(t, []string{"1", "3", "5"}, Map([]int{1, 3, 5}, toString))
	assert.Equal(t, []string{}, Map([]int{}, toString))
	assert.Nil(t, Map[[]int](nil, toString))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"gender", "smoke"}, Unique([]string{"gender", "smoke", "gender"}))
	assert.Nil(t, Unique[[]string](nil))
}
