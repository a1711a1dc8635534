package models

import (
	"fmt"
	"time"
)

// ReservationStatus is a closed set; deriving table status from it goes
// through TableStatus(), which errors on anything outside the set rather
// than falling into a default branch.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationSeated    ReservationStatus = "SEATED"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCanceled  ReservationStatus = "CANCELED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated,
		ReservationCompleted, ReservationCanceled, ReservationNoShow:
		return true
	}
	return false
}

// CountsForCapacity reports whether the reservation's party still
// consumes seats in capacity computations. Seated parties hold their
// tables through the table status, not through seat arithmetic.
func (s ReservationStatus) CountsForCapacity() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// HoldsTables reports whether the reservation still occupies its linked
// tables in any form.
func (s ReservationStatus) HoldsTables() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated:
		return true
	}
	return false
}

// TableStatus derives the table status a reservation in this state
// imposes on its linked tables. The switch is exhaustive over the closed
// set; an unknown status is an error, never a silent default.
func (s ReservationStatus) TableStatus() (TableStatus, error) {
	switch s {
	case ReservationPending, ReservationConfirmed:
		return TableStatusReserved, nil
	case ReservationSeated:
		return TableStatusOccupied, nil
	case ReservationCompleted, ReservationCanceled, ReservationNoShow:
		return TableStatusEmpty, nil
	}
	return "", fmt.Errorf("unknown reservation status %q", string(s))
}

// CanTransitionTo enforces the reservation state machine.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return next == ReservationConfirmed || next == ReservationSeated ||
			next == ReservationCanceled || next == ReservationNoShow
	case ReservationConfirmed:
		return next == ReservationSeated || next == ReservationCanceled || next == ReservationNoShow
	case ReservationSeated:
		return next == ReservationCompleted
	}
	return false
}

type Reservation struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Code          string             `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`
	BranchID      uint               `gorm:"not null;index" json:"branch_id"`
	Branch        Branch             `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerName  string             `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone string             `gorm:"type:varchar(30)" json:"customer_phone"`
	CustomerEmail string             `gorm:"type:varchar(255)" json:"customer_email"`
	Date          string             `gorm:"type:varchar(10);not null;index" json:"date"`
	TimeSlotID    uint               `gorm:"not null;index" json:"time_slot_id"`
	TimeSlot      TimeSlot           `gorm:"foreignKey:TimeSlotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"time_slot"`
	People        int                `gorm:"not null" json:"people"`
	Status        ReservationStatus  `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes         string             `gorm:"type:text" json:"notes"`
	Tables        []ReservationTable `gorm:"foreignKey:ReservationID" json:"tables,omitempty"`
	CreatedAt     time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"not null" json:"updated_at"`
}

// ReservationTable links a reservation to one of its tables. A
// reservation may span several tables (combined assignment) and a shared
// table may carry several reservations at once.
type ReservationTable struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ReservationID uint        `gorm:"not null;index" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableID       uint        `gorm:"not null;index" json:"table_id"`
	Table         Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}
