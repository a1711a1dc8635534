package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bistrodev/bistro-pos/models"
	"gorm.io/gorm"
)

// AssignmentType tags which strategy produced a table assignment. The
// caller uses it to decide between auto-confirming and warning the guest.
type AssignmentType string

const (
	AssignmentSizeMatch   AssignmentType = "size_match"
	AssignmentExclusive   AssignmentType = "exclusive"
	AssignmentSharedTable AssignmentType = "shared_table"
	AssignmentSharedPool  AssignmentType = "shared_pool"
	AssignmentCombined    AssignmentType = "combined"
)

// Assignment is the result of a successful table search.
type Assignment struct {
	TableIDs          []uint         `json:"table_ids"`
	TotalCapacity     int            `json:"total_capacity"`
	Type              AssignmentType `json:"assignment_type"`
	IsSharedTableOnly bool           `json:"is_shared_table_only"`
}

var (
	// ErrBranchNotFound and ErrSlotNotFound mean the request referenced
	// data that does not exist. Distinct from running out of seats.
	ErrBranchNotFound = errors.New("branch not found")
	ErrSlotNotFound   = errors.New("time slot not found")

	// ErrNoCapacity is the normal negative outcome: every strategy ran
	// and nothing can seat the party. Callers offer manual assignment
	// instead of treating this as a system error.
	ErrNoCapacity = errors.New("no tables can accommodate this party")
)

// AssignmentService picks tables for a party in a fixed strategy order:
//
//  1. exact capacity match in the shared pool (no wasted seats)
//  2. a single non-shared table from the slot's exclusive pool
//  3. a 2-3 table combination inside the exclusive pool
//  4. a communal (shared) table with enough seats left
//  5. a single non-shared table from the shared pool
//  6. a 2-3 table combination inside the shared pool
//
// The first strategy that yields a result wins; there is no scoring.
type AssignmentService struct {
	db       *gorm.DB
	pools    *TablePoolResolver
	capacity *CapacityCalculator
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{
		db:       db,
		pools:    NewTablePoolResolver(db),
		capacity: NewCapacityCalculator(db),
	}
}

// candidate pairs a pooled table with its remaining capacity for the
// requested date and slot.
type candidate struct {
	table     models.Table
	remaining int
}

func (s *AssignmentService) Assign(branchID uint, date string, timeSlotID uint, people int) (*Assignment, error) {
	if people <= 0 {
		return nil, fmt.Errorf("party size must be positive, got %d", people)
	}

	var branch models.Branch
	if err := s.db.First(&branch, branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	var slot models.TimeSlot
	err := s.db.Where("id = ? AND branch_id = ?", timeSlotID, branchID).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	day, err := branch.DayOf(date)
	if err != nil {
		return nil, err
	}
	if !slot.IsActive || !slot.ActiveOn(day) {
		return nil, ErrNoCapacity
	}

	pools, err := s.pools.Resolve(&slot, day)
	if err != nil {
		return nil, err
	}

	// Exclusive tables answer to their own slot only; shared-pool tables
	// compete with every overlapping slot, first come first served.
	exclusiveRemaining, err := s.capacity.RemainingBatch(pools.Exclusive, date, []uint{slot.ID})
	if err != nil {
		return nil, err
	}
	sharedRemaining, err := s.capacity.RemainingFCFS(pools.Shared, date, &slot, day)
	if err != nil {
		return nil, err
	}

	exclusive := viableCandidates(pools.Exclusive, exclusiveRemaining)
	shared := viableCandidates(pools.Shared, sharedRemaining)

	// 1. Exact match minimises wasted seats.
	for _, c := range shared {
		if c.remaining == people {
			return singleAssignment(c, AssignmentSizeMatch), nil
		}
	}

	// 2. The slot's own tables come before the common pool.
	for _, c := range exclusive {
		if !c.table.IsShared && c.remaining >= people {
			return singleAssignment(c, AssignmentExclusive), nil
		}
	}

	// 3. Combine exclusive tables before falling back to the shared pool.
	if combo := FindTableCombination(combinationOptions(exclusive), people, maxCombinedTables); combo != nil {
		return combinedAssignment(combo), nil
	}

	// 4. Communal seating; flagged so the caller can warn the guest.
	for _, c := range shared {
		if c.table.IsShared && c.remaining >= people {
			return singleAssignment(c, AssignmentSharedTable), nil
		}
	}

	// 5. A private table from the common pool.
	for _, c := range shared {
		if !c.table.IsShared && c.remaining >= people {
			return singleAssignment(c, AssignmentSharedPool), nil
		}
	}

	// 6. Last resort: combine shared-pool tables.
	if combo := FindTableCombination(combinationOptions(shared), people, maxCombinedTables); combo != nil {
		return combinedAssignment(combo), nil
	}

	return nil, ErrNoCapacity
}

// viableCandidates keeps tables that still have seats and no manual
// status override. The overrides (OCCUPIED/RESERVED/CLEANING) exclude a
// table no matter what the arithmetic says.
func viableCandidates(tables []models.Table, remaining map[uint]int) []candidate {
	out := make([]candidate, 0, len(tables))
	for _, t := range tables {
		rem := remaining[t.ID]
		if rem <= 0 || !t.Available() {
			continue
		}
		out = append(out, candidate{table: t, remaining: rem})
	}
	return out
}

// combinationOptions projects non-shared candidates into the combination
// search, valued at their remaining capacity and sorted by the contract
// order (ascending capacity, then ID).
func combinationOptions(cands []candidate) []TableOption {
	options := make([]TableOption, 0, len(cands))
	for _, c := range cands {
		if c.table.IsShared {
			continue
		}
		options = append(options, TableOption{ID: c.table.ID, Capacity: c.remaining})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Capacity != options[j].Capacity {
			return options[i].Capacity < options[j].Capacity
		}
		return options[i].ID < options[j].ID
	})
	return options
}

func singleAssignment(c candidate, typ AssignmentType) *Assignment {
	return &Assignment{
		TableIDs:          []uint{c.table.ID},
		TotalCapacity:     c.table.Capacity,
		Type:              typ,
		IsSharedTableOnly: c.table.IsShared,
	}
}

func combinedAssignment(combo []TableOption) *Assignment {
	asg := &Assignment{Type: AssignmentCombined}
	for _, opt := range combo {
		asg.TableIDs = append(asg.TableIDs, opt.ID)
		asg.TotalCapacity += opt.Capacity
	}
	return asg
}
