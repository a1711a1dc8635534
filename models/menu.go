package models

import "time"

// Station tells the ticket router which printer family an item belongs to.
type Station string

const (
	StationKitchen Station = "KITCHEN"
	StationBar     Station = "BAR"
	StationReceipt Station = "RECEIPT"
)

func (s Station) Valid() bool {
	return s == StationKitchen || s == StationBar || s == StationReceipt
}

type MenuCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BranchID  uint      `gorm:"not null;index" json:"branch_id"`
	Branch    Branch    `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Station   Station   `gorm:"type:varchar(20);not null;default:'KITCHEN'" json:"station"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type Menu struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CategoryID  uint         `gorm:"not null;index" json:"category_id"`
	Category    MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	// No column default here: gorm skips zero values for defaulted
	// columns on create, which would turn false into true.
	IsAvailable bool         `gorm:"not null" json:"is_available"`
	Description string       `gorm:"type:text" json:"description"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}
