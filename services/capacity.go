package services

import (
	"time"

	"github.com/bistrodev/bistro-pos/models"
	"gorm.io/gorm"
)

// capacityStatuses are the reservation states that consume seats.
var capacityStatuses = []models.ReservationStatus{
	models.ReservationPending,
	models.ReservationConfirmed,
}

// CapacityCalculator computes remaining seats on tables for a date and
// time slot from active reservations. It only ever reads.
type CapacityCalculator struct {
	db *gorm.DB
}

func NewCapacityCalculator(db *gorm.DB) *CapacityCalculator {
	return &CapacityCalculator{db: db}
}

type occupancyRow struct {
	TableID uint
	People  int
}

// OccupiedSeats sums reserved party sizes per table across the given
// slots in a single aggregate query. One round-trip regardless of how
// many tables are asked about.
func (cc *CapacityCalculator) OccupiedSeats(tableIDs []uint, date string, slotIDs []uint) (map[uint]int, error) {
	occupied := make(map[uint]int, len(tableIDs))
	if len(tableIDs) == 0 || len(slotIDs) == 0 {
		return occupied, nil
	}

	var rows []occupancyRow
	err := cc.db.Table("reservation_tables").
		Select("reservation_tables.table_id AS table_id, SUM(reservations.people) AS people").
		Joins("JOIN reservations ON reservations.id = reservation_tables.reservation_id").
		Where("reservation_tables.table_id IN ?", tableIDs).
		Where("reservations.date = ?", date).
		Where("reservations.time_slot_id IN ?", slotIDs).
		Where("reservations.status IN ?", capacityStatuses).
		Group("reservation_tables.table_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		occupied[row.TableID] = row.People
	}
	return occupied, nil
}

// RemainingBatch computes remaining capacity for many tables at once.
// Pass the requested slot alone for the exact-slot rule, or the full
// overlap set for FCFS aggregation.
//
// A non-shared table is all-or-nothing: any qualifying reservation zeroes
// it, no matter how few seats that party uses. A shared table keeps
// serving independent parties until its seats run out.
func (cc *CapacityCalculator) RemainingBatch(tables []models.Table, date string, slotIDs []uint) (map[uint]int, error) {
	ids := make([]uint, len(tables))
	for i := range tables {
		ids[i] = tables[i].ID
	}

	occupied, err := cc.OccupiedSeats(ids, date, slotIDs)
	if err != nil {
		return nil, err
	}

	remaining := make(map[uint]int, len(tables))
	for i := range tables {
		t := &tables[i]
		used := occupied[t.ID]
		switch {
		case used == 0:
			remaining[t.ID] = t.Capacity
		case t.IsShared:
			rem := t.Capacity - used
			if rem < 0 {
				rem = 0
			}
			remaining[t.ID] = rem
		default:
			remaining[t.ID] = 0
		}
	}
	return remaining, nil
}

// Remaining is the single-table form of RemainingBatch for the exact
// requested slot.
func (cc *CapacityCalculator) Remaining(table *models.Table, date string, timeSlotID uint) (int, error) {
	batch, err := cc.RemainingBatch([]models.Table{*table}, date, []uint{timeSlotID})
	if err != nil {
		return 0, err
	}
	return batch[table.ID], nil
}

// RemainingFCFS aggregates occupancy across every slot whose window
// overlaps the requested one, so a shared table's remaining capacity
// reflects cross-slot contention: whoever reserved first keeps the
// seats, even from a nominally different slot.
func (cc *CapacityCalculator) RemainingFCFS(tables []models.Table, date string, slot *models.TimeSlot, day time.Weekday) (map[uint]int, error) {
	slotIDs, err := cc.OverlappingSlotIDs(slot, day)
	if err != nil {
		return nil, err
	}
	return cc.RemainingBatch(tables, date, slotIDs)
}

// OverlappingSlotIDs returns the requested slot plus every other active
// branch slot whose window overlaps it on the given weekday.
func (cc *CapacityCalculator) OverlappingSlotIDs(slot *models.TimeSlot, day time.Weekday) ([]uint, error) {
	var slots []models.TimeSlot
	err := cc.db.
		Where("branch_id = ? AND is_active = ?", slot.BranchID, true).
		Find(&slots).Error
	if err != nil {
		return nil, err
	}

	ids := []uint{slot.ID}
	for i := range slots {
		other := &slots[i]
		if other.ID == slot.ID || !other.ActiveOn(day) {
			continue
		}
		if slot.Overlaps(other) {
			ids = append(ids, other.ID)
		}
	}
	return ids, nil
}
