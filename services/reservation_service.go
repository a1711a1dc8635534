package services

import (
	"errors"
	"fmt"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService creates reservations through the assignment engine
// and drives their status machine. All writes for one booking happen in
// one transaction: the reservation row, the table links and the table
// status flips commit together or not at all.
type ReservationService struct {
	db   *gorm.DB
	sink NotificationSink
}

func NewReservationService(db *gorm.DB, sink NotificationSink) *ReservationService {
	return &ReservationService{db: db, sink: sink}
}

type BookingRequest struct {
	BranchID      uint
	Date          string
	TimeSlotID    uint
	People        int
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
	Status        models.ReservationStatus // PENDING or CONFIRMED; defaults to PENDING
	TableIDs      []uint                   // manual pick; bypasses the engine when set
}

type BookingResult struct {
	Reservation *models.Reservation
	Assignment  *Assignment
}

// Book runs the engine (or takes the manually picked tables), persists
// the reservation and claims the tables. Capacity is re-validated inside
// the transaction after the links are written, so two concurrent
// requests cannot both take the last seats: the loser rolls back with
// ErrNoCapacity.
func (s *ReservationService) Book(req BookingRequest) (*BookingResult, error) {
	if req.People <= 0 {
		return nil, fmt.Errorf("party size must be positive, got %d", req.People)
	}
	if req.CustomerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	status := req.Status
	if status == "" {
		status = models.ReservationPending
	}
	if status != models.ReservationPending && status != models.ReservationConfirmed {
		return nil, fmt.Errorf("a new reservation cannot start as %s", status)
	}

	var result BookingResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignment, err := s.resolveTables(tx, req)
		if err != nil {
			return err
		}

		reservation := &models.Reservation{
			Code:          uuid.NewString(),
			BranchID:      req.BranchID,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			Date:          req.Date,
			TimeSlotID:    req.TimeSlotID,
			People:        req.People,
			Status:        status,
			Notes:         req.Notes,
		}
		if err := tx.Create(reservation).Error; err != nil {
			return err
		}

		if err := s.claimTables(tx, reservation, assignment.TableIDs); err != nil {
			return err
		}

		result = BookingResult{Reservation: reservation, Assignment: assignment}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyConfirmation(result.Reservation, result.Assignment.TableIDs)
	return &result, nil
}

// resolveTables runs the strategy engine, or validates a manual pick.
func (s *ReservationService) resolveTables(tx *gorm.DB, req BookingRequest) (*Assignment, error) {
	if len(req.TableIDs) == 0 {
		return NewAssignmentService(tx).Assign(req.BranchID, req.Date, req.TimeSlotID, req.People)
	}

	var tables []models.Table
	err := tx.Where("id IN ? AND branch_id = ?", req.TableIDs, req.BranchID).Find(&tables).Error
	if err != nil {
		return nil, err
	}
	if len(tables) != len(req.TableIDs) {
		return nil, fmt.Errorf("one or more requested tables do not exist on this branch")
	}
	asg := &Assignment{Type: AssignmentCombined, IsSharedTableOnly: true}
	for _, t := range tables {
		if !t.Available() {
			return nil, ErrNoCapacity
		}
		asg.TableIDs = append(asg.TableIDs, t.ID)
		asg.TotalCapacity += t.Capacity
		if !t.IsShared {
			asg.IsSharedTableOnly = false
		}
	}
	if len(asg.TableIDs) == 1 {
		if tables[0].IsShared {
			asg.Type = AssignmentSharedTable
		} else {
			asg.Type = AssignmentSharedPool
		}
	}
	return asg, nil
}

// claimTables writes the reservation-table links, re-validates capacity
// on the open transaction and flips table status for same-day bookings.
func (s *ReservationService) claimTables(tx *gorm.DB, r *models.Reservation, tableIDs []uint) error {
	for _, id := range tableIDs {
		link := models.ReservationTable{ReservationID: r.ID, TableID: id}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}

	if err := s.verifyCapacity(tx, r, tableIDs); err != nil {
		return err
	}

	var branch models.Branch
	if err := tx.First(&branch, r.BranchID).Error; err != nil {
		return err
	}
	if r.Date != branch.Today() {
		// Future bookings live in the link records; the physical table
		// stays free until the day of service.
		return nil
	}
	return s.applyTableStatus(tx, r.Status, tableIDs)
}

// verifyCapacity re-runs the aggregate inside the transaction, counting
// this reservation's own links, across every overlapping slot. If a
// non-shared table carries more people than this party, or a shared
// table is over capacity, a concurrent booking won the race and this one
// rolls back. On dialects that support it the aggregate takes row locks.
func (s *ReservationService) verifyCapacity(tx *gorm.DB, r *models.Reservation, tableIDs []uint) error {
	var slot models.TimeSlot
	if err := tx.First(&slot, r.TimeSlotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		return err
	}
	var branch models.Branch
	if err := tx.First(&branch, r.BranchID).Error; err != nil {
		return err
	}
	day, err := branch.DayOf(r.Date)
	if err != nil {
		return err
	}

	cc := NewCapacityCalculator(lockingRead(tx))
	slotIDs, err := cc.OverlappingSlotIDs(&slot, day)
	if err != nil {
		return err
	}
	occupied, err := cc.OccupiedSeats(tableIDs, r.Date, slotIDs)
	if err != nil {
		return err
	}

	var tables []models.Table
	if err := tx.Where("id IN ?", tableIDs).Find(&tables).Error; err != nil {
		return err
	}
	for i := range tables {
		t := &tables[i]
		used := occupied[t.ID]
		if t.IsShared {
			if used > t.Capacity {
				return ErrNoCapacity
			}
			continue
		}
		// Non-shared: the only people on this table must be ours.
		if used > r.People {
			return ErrNoCapacity
		}
	}
	return nil
}

// lockingRead adds SELECT ... FOR UPDATE where the dialect supports it.
// SQLite serialises writers on its own and rejects the clause.
func lockingRead(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// applyTableStatus flips the status of the non-shared linked tables to
// whatever the reservation status dictates. Shared tables never change
// status here: they keep hosting other parties, and only seat arithmetic
// limits them.
func (s *ReservationService) applyTableStatus(tx *gorm.DB, status models.ReservationStatus, tableIDs []uint) error {
	target, err := status.TableStatus()
	if err != nil {
		return err
	}

	var tables []models.Table
	if err := tx.Where("id IN ?", tableIDs).Find(&tables).Error; err != nil {
		return err
	}
	for i := range tables {
		t := &tables[i]
		if t.IsShared {
			continue
		}
		if target == models.TableStatusEmpty {
			// Releasing: only clear a hold this subsystem set; a manual
			// CLEANING override stays put.
			err = tx.Model(&models.Table{}).
				Where("id = ? AND status IN ?", t.ID,
					[]models.TableStatus{models.TableStatusReserved, models.TableStatusOccupied}).
				Update("status", target).Error
			if err != nil {
				return err
			}
			continue
		}
		// Claiming: the conditional write is the serialisation point for
		// same-day bookings; zero rows affected means somebody else holds
		// the table already. Seating may take over a table this
		// reservation already holds as RESERVED.
		allowed := []models.TableStatus{"", models.TableStatusEmpty}
		if target == models.TableStatusOccupied {
			allowed = append(allowed, models.TableStatusReserved)
		}
		res := tx.Model(&models.Table{}).
			Where("id = ? AND status IN ?", t.ID, allowed).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 && t.Status != target {
			return ErrNoCapacity
		}
	}
	return nil
}

// Transition moves a reservation through its status machine and derives
// the linked tables' status in the same transaction, so a table is never
// linked to a state its status contradicts.
func (s *ReservationService) Transition(reservationID uint, next models.ReservationStatus) (*models.Reservation, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown reservation status %q", string(next))
	}

	var reservation models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Tables").First(&reservation, reservationID).Error
		if err != nil {
			return err
		}
		if !reservation.Status.CanTransitionTo(next) {
			return fmt.Errorf("cannot move reservation from %s to %s", reservation.Status, next)
		}

		if err := tx.Model(&reservation).Update("status", next).Error; err != nil {
			return err
		}
		reservation.Status = next

		tableIDs := make([]uint, 0, len(reservation.Tables))
		for _, link := range reservation.Tables {
			tableIDs = append(tableIDs, link.TableID)
		}
		if len(tableIDs) == 0 {
			return nil
		}

		if next.HoldsTables() {
			var branch models.Branch
			if err := tx.First(&branch, reservation.BranchID).Error; err != nil {
				return err
			}
			if next != models.ReservationSeated && reservation.Date != branch.Today() {
				return nil
			}
		}
		return s.applyTableStatus(tx, next, tableIDs)
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// notifyConfirmation is best effort; a failed email never unwinds a
// committed booking.
func (s *ReservationService) notifyConfirmation(r *models.Reservation, tableIDs []uint) {
	if s.sink == nil || r.CustomerEmail == "" {
		return
	}

	var numbers []string
	s.db.Model(&models.Table{}).Where("id IN ?", tableIDs).
		Order("id ASC").Pluck("table_number", &numbers)

	if err := s.sink.ReservationConfirmed(r, numbers); err != nil {
		utils.ErrorLogger.Printf("Failed to send confirmation for reservation %s: %v", r.Code, err)
	}
}
