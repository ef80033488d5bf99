package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity[V comparable](v V) V { return v }

func TestEmptyPatternIsNoop(t *testing.T) {
	tr := New[int]()
	tr.Insert("", 1)
	assert.Equal(t, 0, tr.Size())
	assert.True(t, tr.Empty())
}

func TestExactMatchAndPrefixFanOut(t *testing.T) {
	tr := New[string]()
	tr.Insert("app", "app-v")
	tr.Insert("apple", "apple-v")
	tr.Insert("application", "application-v")
	tr.Insert("banana", "banana-v")

	assert.ElementsMatch(t, []string{"app-v", "apple-v", "application-v"}, tr.Match("app"))
	assert.ElementsMatch(t, []string{"apple-v", "application-v"}, tr.Match("appl"))
	assert.Equal(t, []string{"banana-v"}, tr.Match("banana"))
	assert.Equal(t, []string{"banana-v"}, tr.Match("ban"))
}

func TestRepeatedInsertAppendsValue(t *testing.T) {
	tr := New[int]()
	tr.Insert("dup", 1)
	tr.Insert("dup", 2)
	tr.Insert("dup", 3)
	assert.Equal(t, []int{1, 2, 3}, tr.Match("dup"))
	assert.Equal(t, 3, tr.Size())
}

func TestSplitMidEdge(t *testing.T) {
	tr := New[string]()
	tr.Insert("abc", "abc-v")
	tr.Insert("abd", "abd-v")
	assert.ElementsMatch(t, []string{"abc-v", "abd-v"}, tr.Match("ab"))
	assert.Equal(t, []string{"abc-v"}, tr.Match("abc"))
	assert.Equal(t, []string{"abd-v"}, tr.Match("abd"))
}

func TestLeafPromotionWhenLongerPatternArrives(t *testing.T) {
	tr := New[string]()
	tr.Insert("app", "app-v")
	// "app" is a bare leaf here; inserting "apple" must promote it in place.
	tr.Insert("apple", "apple-v")
	tr.Insert("applesauce", "applesauce-v")

	assert.ElementsMatch(t, []string{"app-v", "apple-v", "applesauce-v"}, tr.Match("app"))
	assert.ElementsMatch(t, []string{"apple-v", "applesauce-v"}, tr.Match("apple"))
	assert.Equal(t, []string{"applesauce-v"}, tr.Match("applesauce"))
}

func TestNonExistentPrefixReturnsNil(t *testing.T) {
	tr := New[int]()
	tr.Insert("hello", 1)
	assert.Nil(t, tr.Match("world"))
	assert.Nil(t, tr.Match("helloo"))
}

func TestMultiByteCodepointKeys(t *testing.T) {
	tr := New[string]()
	tr.Insert("café", "café-v")
	tr.Insert("cafeteria", "cafeteria-v")

	assert.Equal(t, []string{"café-v"}, tr.Match("café"))
	assert.Equal(t, []string{"cafeteria-v"}, tr.Match("cafeteria"))
	assert.ElementsMatch(t, []string{"café-v", "cafeteria-v"}, tr.Match("caf"))

	// Truncated mid-codepoint query must fail decode, not silently match.
	assert.Nil(t, tr.Match("caf\xc3"))
}

func TestMatchRankedDedupesAcrossSharedValues(t *testing.T) {
	tr := New[int]()
	tr.Insert("one", 42)
	tr.Insert("only", 42) // same value reachable via two patterns
	tr.Insert("only-other", 7)

	less := func(a, b int) bool { return a < b }
	got := MatchRanked(tr, "on", identity[int], less, 10)
	assert.ElementsMatch(t, []int{7, 42}, got)
}

func TestMatchRankedBoundsToK(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 20; i++ {
		tr.Insert(fmt.Sprintf("item%02d", i), i)
	}
	preferSmaller := func(a, b int) bool { return a < b }
	got := MatchRanked(tr, "item", identity[int], preferSmaller, 5)
	require.Len(t, got, 5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestFinishProducesSameTopKAsUnfinishedScan(t *testing.T) {
	tr := New[int]()
	const n = 500
	for i := 0; i < n; i++ {
		tr.Insert(fmt.Sprintf("word%04d", i), i)
	}
	preferLarger := func(a, b int) bool { return a > b }

	before := MatchRanked(tr, "word", identity[int], preferLarger, 10)

	Finish(tr, identity[int], preferLarger, 10)
	after := MatchRanked(tr, "word", identity[int], preferLarger, 10)

	assert.Equal(t, before, after)
	assert.Len(t, after, 10)
	assert.Equal(t, n-1, after[0])
}

func TestClearResetsTree(t *testing.T) {
	tr := New[int]()
	tr.Insert("x", 1)
	tr.Clear()
	assert.True(t, tr.Empty())
	assert.Nil(t, tr.Match("x"))
}

func TestGetFindsExactPatternOnly(t *testing.T) {
	tr := New[string]()
	tr.Insert("/users", "users-v")
	tr.Insert("/users/all", "users-all-v")

	v, ok := tr.Get("/users")
	require.True(t, ok)
	assert.Equal(t, "users-v", v)

	v, ok = tr.Get("/users/all")
	require.True(t, ok)
	assert.Equal(t, "users-all-v", v)

	_, ok = tr.Get("/user")
	assert.False(t, ok)
	_, ok = tr.Get("/users/al")
	assert.False(t, ok)
}

func TestGetOnRepeatedInsertReturnsMostRecent(t *testing.T) {
	tr := New[int]()
	tr.Insert("dup", 1)
	tr.Insert("dup", 2)
	v, ok := tr.Get("dup")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestWalkVisitsEveryPatternValuePair(t *testing.T) {
	tr := New[int]()
	tr.Insert("/a", 1)
	tr.Insert("/ab", 2)
	tr.Insert("/abc", 3)
	tr.Insert("/abc", 4) // second value under an already-visited pattern

	seen := make(map[string][]int)
	tr.Walk(func(pattern string, v int) bool {
		seen[pattern] = append(seen[pattern], v)
		return false
	})

	assert.Equal(t, []int{1}, seen["/a"])
	assert.Equal(t, []int{2}, seen["/ab"])
	assert.ElementsMatch(t, []int{3, 4}, seen["/abc"])
}

func TestWalkStopsEarlyWhenFnReturnsTrue(t *testing.T) {
	tr := New[int]()
	tr.Insert("/a", 1)
	tr.Insert("/b", 2)
	tr.Insert("/c", 3)

	visited := 0
	tr.Walk(func(pattern string, v int) bool {
		visited++
		return true
	})
	assert.Equal(t, 1, visited)
}

func TestInsertionOrderPreservedInExhaustiveMatch(t *testing.T) {
	tr := New[int]()
	tr.Insert("pre-c", 3)
	tr.Insert("pre-a", 1)
	tr.Insert("pre-b", 2)
	assert.Equal(t, []int{3, 1, 2}, tr.Match("pre"))
}
