package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapInsertKeepsBestK(t *testing.T) {
	less := func(a, b int) bool { return a < b } // prefers smaller values
	var buf []int
	for _, v := range []int{9, 3, 7, 1, 8, 2, 6} {
		HeapInsert(&buf, v, less, 3)
	}
	assert.Len(t, buf, 3)
	sortByPreference(buf, less)
	assert.Equal(t, []int{1, 2, 3}, buf)
}

func TestHeapInsertRespectsCapacityZero(t *testing.T) {
	var buf []int
	HeapInsert(&buf, 5, func(a, b int) bool { return a < b }, 0)
	assert.Empty(t, buf)
}

func TestHeapInsertBelowCapacity(t *testing.T) {
	var buf []string
	less := func(a, b string) bool { return a < b }
	HeapInsert(&buf, "b", less, 5)
	HeapInsert(&buf, "a", less, 5)
	assert.Len(t, buf, 2)
}
