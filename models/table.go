package models

import "time"

// TableStatus is a manual override set by staff or by reservation status
// transitions. The empty string means no override (same as EMPTY).
type TableStatus string

const (
	TableStatusEmpty    TableStatus = "EMPTY"
	TableStatusOccupied TableStatus = "OCCUPIED"
	TableStatusReserved TableStatus = "RESERVED"
	TableStatusCleaning TableStatus = "CLEANING"
)

func (s TableStatus) Valid() bool {
	switch s {
	case "", TableStatusEmpty, TableStatusOccupied, TableStatusReserved, TableStatusCleaning:
		return true
	}
	return false
}

type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	BranchID    uint        `gorm:"not null;index" json:"branch_id"`
	Branch      Branch      `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableNumber string      `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	IsShared    bool        `gorm:"not null;default:false" json:"is_shared"`
	IsActive    bool        `gorm:"not null;default:true" json:"is_active"`
	Status      TableStatus `gorm:"type:varchar(20);not null;default:''" json:"status"`
	Floor       int         `gorm:"not null;default:1" json:"floor"`
	PosX        float64     `json:"pos_x"`
	PosY        float64     `json:"pos_y"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

// Available reports whether the table may enter a candidate pool.
// A manual override (OCCUPIED/RESERVED/CLEANING) always wins over any
// computed capacity.
func (t *Table) Available() bool {
	return t.IsActive && (t.Status == "" || t.Status == TableStatusEmpty)
}

// TableStatusLog records every manual status override for audit.
type TableStatusLog struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	TableID   uint        `gorm:"not null;index" json:"table_id"`
	Table     Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserID    *uint       `gorm:"index" json:"user_id,omitempty"`
	OldStatus TableStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus TableStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	Reason    string      `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
}
