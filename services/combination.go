package services

// maxCombinedTables bounds how many tables one party may be spread over.
const maxCombinedTables = 3

// TableOption is a combination candidate: a table ID with its remaining
// capacity for the requested date and slot.
type TableOption struct {
	ID       uint
	Capacity int
}

// FindTableCombination looks for a group of exactly 2, then exactly 3
// tables whose capacities sum to at least target. The first qualifying
// group in input order wins, so for a fixed input ordering the result is
// stable; callers sort candidates by ascending capacity, then ID, before
// calling. Returns nil when no group within maxTables reaches the target.
//
// Shared tables never reach this function; combining communal seating
// with anything is not offered.
func FindTableCombination(options []TableOption, target, maxTables int) []TableOption {
	if maxTables > len(options) {
		maxTables = len(options)
	}
	for size := 2; size <= maxTables; size++ {
		if combo := combinationOfSize(options, target, size); combo != nil {
			return combo
		}
	}
	return nil
}

// combinationOfSize enumerates index combinations of exactly size in
// lexicographic order and returns the first whose capacities cover
// target. The index arithmetic replaces the slice-splitting recursion a
// naive implementation would use; depth and allocations stay bounded no
// matter how many candidate tables exist.
func combinationOfSize(options []TableOption, target, size int) []TableOption {
	n := len(options)
	if size < 1 || size > n {
		return nil
	}

	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}

	for {
		sum := 0
		for _, i := range idx {
			sum += options[i].Capacity
		}
		if sum >= target {
			combo := make([]TableOption, size)
			for k, i := range idx {
				combo[k] = options[i]
			}
			return combo
		}

		// Advance to the next lexicographic index combination.
		p := size - 1
		for p >= 0 && idx[p] == n-size+p {
			p--
		}
		if p < 0 {
			return nil
		}
		idx[p]++
		for q := p + 1; q < size; q++ {
			idx[q] = idx[q-1] + 1
		}
	}
}
