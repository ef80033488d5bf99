package tree

import "sort"

// rankHeap is the materialized top-K cache attached to a subtree once
// Finish has processed it, sorted best-first under the comparator used to
// build it.
type rankHeap[V any] struct {
	items []V
}

// HeapInsert maintains buf as a bounded best-K collection under cmp, where
// cmp(a, b) reports whether a is strictly preferred over b. Below capacity,
// item is appended and sifted up. At capacity, item replaces the current
// worst-kept element (the heap root) only if it is preferred over it.
//
// The heap itself is a hand-rolled binary min-heap ordered by "worseness"
// (root = worst of the kept K) so eviction is a single comparison against
// buf[0], mirroring std::push_heap/pop_heap from original_source/radix.cc's
// heap_insert without pulling in container/heap's interface-boxing.
func HeapInsert[V any](buf *[]V, item V, cmp func(a, b V) bool, k int) {
	if k <= 0 {
		return
	}
	worse := func(b []V, i, j int) bool { return cmp(b[j], b[i]) }

	if len(*buf) < k {
		*buf = append(*buf, item)
		siftUp(*buf, len(*buf)-1, worse)
		return
	}
	if cmp(item, (*buf)[0]) {
		(*buf)[0] = item
		siftDown(*buf, 0, len(*buf), worse)
	}
}

func siftUp[V any](buf []V, j int, worse func(b []V, i, j int) bool) {
	for j > 0 {
		parent := (j - 1) / 2
		if !worse(buf, j, parent) {
			break
		}
		buf[j], buf[parent] = buf[parent], buf[j]
		j = parent
	}
}

func siftDown[V any](buf []V, i, n int, worse func(b []V, i, j int) bool) {
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && worse(buf, right, left) {
			child = right
		}
		if !worse(buf, child, i) {
			break
		}
		buf[i], buf[child] = buf[child], buf[i]
		i = child
	}
}

// sortByPreference orders buf best-first under cmp, the one-time "sort the
// heap" step that finish performs after a subtree's bounded heap is full.
func sortByPreference[V any](buf []V, cmp func(a, b V) bool) {
	sort.Slice(buf, func(i, j int) bool { return cmp(buf[i], buf[j]) })
}
