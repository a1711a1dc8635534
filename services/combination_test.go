package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func opts(caps ...int) []TableOption {
	out := make([]TableOption, len(caps))
	for i, c := range caps {
		out[i] = TableOption{ID: uint(i + 1), Capacity: c}
	}
	return out
}

func TestFindTableCombinationPrefersPairs(t *testing.T) {
	// Capacities 2, 3, 5 for a party of 7: (2,3) is short, (2,5) fits.
	// Three-table groups are never considered once a pair works.
	combo := FindTableCombination(opts(2, 3, 5), 7, maxCombinedTables)
	assert.Len(t, combo, 2)
	assert.Equal(t, uint(1), combo[0].ID)
	assert.Equal(t, uint(3), combo[1].ID)
	assert.Equal(t, 7, combo[0].Capacity+combo[1].Capacity)
}

func TestFindTableCombinationFallsBackToTriples(t *testing.T) {
	combo := FindTableCombination(opts(2, 3, 4), 9, maxCombinedTables)
	assert.Len(t, combo, 3)

	sum := 0
	for _, o := range combo {
		sum += o.Capacity
	}
	assert.GreaterOrEqual(t, sum, 9)
}

func TestFindTableCombinationRespectsBound(t *testing.T) {
	// Four twos could seat 8 together, but groups stop at three tables.
	assert.Nil(t, FindTableCombination(opts(2, 2, 2, 2), 8, maxCombinedTables))
	assert.Nil(t, FindTableCombination(opts(2, 3, 5), 11, maxCombinedTables))
}

func TestFindTableCombinationNeverReturnsSingle(t *testing.T) {
	// A single table that fits on its own is the single-table strategies'
	// business; the search starts at pairs.
	combo := FindTableCombination(opts(10, 2), 4, maxCombinedTables)
	assert.Len(t, combo, 2)
}

func TestFindTableCombinationDeterministic(t *testing.T) {
	options := opts(2, 2, 3, 4, 4, 6)
	first := FindTableCombination(options, 6, maxCombinedTables)
	for i := 0; i < 10; i++ {
		again := FindTableCombination(options, 6, maxCombinedTables)
		assert.Equal(t, first, again)
	}
}

func TestFindTableCombinationEmptyInput(t *testing.T) {
	assert.Nil(t, FindTableCombination(nil, 4, maxCombinedTables))
	assert.Nil(t, FindTableCombination(opts(5), 4, maxCombinedTables))
}
