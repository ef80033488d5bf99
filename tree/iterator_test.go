package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIteratorWalksInInsertionOrder(t *testing.T) {
	tr := New[int]()
	tr.Insert("pre-a", 1)
	tr.Insert("pre-b", 2)
	tr.Insert("pre-c", 3)

	it := tr.MatchIterator("pre")
	it.Reset(0, it.Count())

	var got []int
	for it.Valid() {
		got = append(got, it.Value())
		it.Next()
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestIteratorResetSkipsLeadingLeaves(t *testing.T) {
	tr := New[int]()
	tr.Insert("pre-a", 1)
	tr.Insert("pre-b", 2)
	tr.Insert("pre-c", 3)

	it := tr.MatchIterator("pre")
	it.Reset(1, 2)

	var got []int
	for it.Valid() {
		got = append(got, it.Value())
		it.Next()
	}
	assert.Equal(t, []int{2, 3}, got)
}

func TestIteratorCountBoundsOutput(t *testing.T) {
	tr := New[int]()
	tr.Insert("pre-a", 1)
	tr.Insert("pre-b", 2)
	tr.Insert("pre-c", 3)

	it := tr.MatchIterator("pre")
	it.Reset(0, 2)

	var got []int
	for it.Valid() {
		got = append(got, it.Value())
		it.Next()
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestIteratorMultipleValuesPerLeaf(t *testing.T) {
	tr := New[int]()
	tr.Insert("dup", 1)
	tr.Insert("dup", 2)
	tr.Insert("dup", 3)

	it := tr.MatchIterator("dup")
	it.Reset(0, it.Count())

	var got []int
	for it.Valid() {
		got = append(got, it.Value())
		it.Next()
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestIteratorNonMatchingPrefixIsInvalid(t *testing.T) {
	tr := New[int]()
	tr.Insert("hello", 1)

	it := tr.MatchIterator("world")
	it.Reset(0, 10)
	assert.False(t, it.Valid())
}
