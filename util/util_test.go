package util_test

import (
	"slices"
	"testing"

	"github.com/lacuna-lang/lacuna/util"
	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	var s util.Stack[int]
	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, 3, s.Len())

	top, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 3, top)
	assert.Equal(t, []int{1, 2}, s.PopAll())
	assert.Equal(t, 0, s.Len())

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestReverse(t *testing.T) {
	got := slices.Collect(util.Reverse([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"c", "b", "a"}, got)
	assert.Empty(t, slices.Collect(util.Reverse([]string{})))
}

func TestMapIter(t *testing.T) {
	doubled := util.MapIter(slices.Values([]int{1, 2, 3}), func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6}, slices.Collect(doubled))
}

func TestSetFromSeq(t *testing.T) {
	s := util.SetFromSeq(slices.Values([]int{1, 2, 2, 3, 1}), 3)
	assert.Equal(t, 3, s.Size())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(4))
}

func TestPair(t *testing.T) {
	p := util.NewPair("k", 7)
	assert.Equal(t, "k", p.Fst)
	assert.Equal(t, 7, p.Snd)
}
