package services

import (
	"time"

	"github.com/bistrodev/bistro-pos/models"
	"gorm.io/gorm"
)

// TablePools partitions a branch's active tables for one slot request.
//
// Exclusive holds the tables explicitly claimed by the requested slot.
// Shared holds every active table not exclusively claimed by any slot
// whose window overlaps the request on that weekday. A slot's window
// overlaps itself, so its own exclusive tables live only in Exclusive.
//
// Both pools come back sorted by ascending capacity, then ID. That order
// is part of the contract: the combination search returns the first hit
// in input order, so the sort decides which tables get combined.
type TablePools struct {
	Exclusive []models.Table
	Shared    []models.Table
}

type TablePoolResolver struct {
	db *gorm.DB
}

func NewTablePoolResolver(db *gorm.DB) *TablePoolResolver {
	return &TablePoolResolver{db: db}
}

// Resolve builds the exclusive and shared pools for the requested slot.
// A slot with zero table assignments gets an empty exclusive pool and
// falls back to the full shared pool.
func (r *TablePoolResolver) Resolve(slot *models.TimeSlot, day time.Weekday) (*TablePools, error) {
	var tables []models.Table
	err := r.db.
		Where("branch_id = ? AND is_active = ?", slot.BranchID, true).
		Order("capacity ASC, id ASC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	var links []models.TimeSlotTable
	if err := r.db.Where("time_slot_id = ?", slot.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	exclusiveIDs := make(map[uint]bool)
	for _, link := range links {
		if link.IsExclusive {
			exclusiveIDs[link.TableID] = true
		}
	}

	var slots []models.TimeSlot
	err = r.db.Preload("Tables").
		Where("branch_id = ? AND is_active = ? AND id <> ?", slot.BranchID, true, slot.ID).
		Find(&slots).Error
	if err != nil {
		return nil, err
	}

	// The requested slot's own exclusive tables never sit in the shared
	// pool either; they are already claimed.
	blocked := make(map[uint]bool, len(exclusiveIDs))
	for id := range exclusiveIDs {
		blocked[id] = true
	}
	for i := range slots {
		other := &slots[i]
		if !other.ActiveOn(day) || !slot.Overlaps(other) {
			continue
		}
		for _, link := range other.Tables {
			if link.IsExclusive {
				blocked[link.TableID] = true
			}
		}
	}

	pools := &TablePools{}
	for _, t := range tables {
		if exclusiveIDs[t.ID] {
			pools.Exclusive = append(pools.Exclusive, t)
		}
		if !blocked[t.ID] {
			pools.Shared = append(pools.Shared, t)
		}
	}
	return pools, nil
}
