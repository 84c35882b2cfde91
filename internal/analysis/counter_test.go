package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Counts(t *testing.T) {
	c := NewCounter("get", "set", "get", "is", "get", "set")

	assert.Equal(t, 3, c.Count("get"))
	assert.Equal(t, 2, c.Count("set"))
	assert.Equal(t, 1, c.Count("is"))
	assert.Equal(t, 0, c.Count("missing"))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 6, c.Total())
}

func TestCounter_AddIgnoresNegative(t *testing.T) {
	c := NewCounter()
	c.Add("x", 2)
	c.Add("x", -5)
	assert.Equal(t, 2, c.Count("x"))
}

func TestCounter_MostCommon(t *testing.T) {
	c := NewCounter("b", "a", "a", "c", "a", "b")

	assert.Equal(t, RankedList{{"a", 3}, {"b", 2}, {"c", 1}}, c.MostCommon(10))
	assert.Equal(t, RankedList{{"a", 3}, {"b", 2}}, c.MostCommon(2))
	assert.Equal(t, RankedList{{"a", 3}}, c.MostCommon(1))
}

func TestCounter_MostCommon_TiesKeepFirstSeenOrder(t *testing.T) {
	c := NewCounter("get", "user", "name", "set", "user", "name", "is", "valid")

	got := c.MostCommon(5)
	assert.Equal(t, RankedList{{"user", 2}, {"name", 2}, {"get", 1}, {"set", 1}, {"is", 1}}, got)
}

func TestCounter_MostCommon_NonPositive(t *testing.T) {
	c := NewCounter("a")
	assert.Empty(t, c.MostCommon(0))
	assert.Empty(t, c.MostCommon(-1))
}

func TestCounter_MostCommon_Empty(t *testing.T) {
	assert.Empty(t, NewCounter().MostCommon(10))
}

func TestCounter_MostCommon_SortedAndBounded(t *testing.T) {
	keys := []string{"x", "y", "z", "y", "z", "z", "w", "w", "w", "w", "v"}
	c := NewCounter(keys...)

	for k := 1; k <= 7; k++ {
		got := c.MostCommon(k)
		assert.LessOrEqual(t, len(got), k)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
		}
	}
}

func TestCounter_RankingIndependentOfInsertionOrderForDistinctCounts(t *testing.T) {
	a := NewCounter("a", "b", "b", "c", "c", "c")
	b := NewCounter("c", "b", "c", "a", "b", "c")
	assert.Equal(t, a.MostCommon(3), b.MostCommon(3))
}

func TestRankedList_Keys(t *testing.T) {
	r := RankedList{{"get", 3}, {"set", 1}}
	assert.Equal(t, []string{"get", "set"}, r.Keys())
	assert.Empty(t, RankedList{}.Keys())
}
