package models

import "time"

type Printer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BranchID  uint      `gorm:"not null;index" json:"branch_id"`
	Branch    Branch    `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Station   Station   `gorm:"type:varchar(20);not null;default:'KITCHEN'" json:"station"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type TicketStatus string

const (
	TicketQueued TicketStatus = "QUEUED"
	TicketSent   TicketStatus = "SENT"
	TicketFailed TicketStatus = "FAILED"
)

// Ticket is the routed, printable slice of an order for one station.
// It is plain text handed to the dispatch hub; driving the physical
// printer is not this system's job.
type Ticket struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	OrderID   uint         `gorm:"not null;index" json:"order_id"`
	Order     Order        `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	PrinterID *uint        `gorm:"index" json:"printer_id,omitempty"`
	Printer   *Printer     `gorm:"foreignKey:PrinterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"printer,omitempty"`
	Station   Station      `gorm:"type:varchar(20);not null" json:"station"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	Status    TicketStatus `gorm:"type:varchar(10);not null;default:'QUEUED'" json:"status"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}
