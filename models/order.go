package models

import "time"

type OrderType string

const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeaway OrderType = "TAKEAWAY"
	OrderDelivery OrderType = "DELIVERY"
)

func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeaway || t == OrderDelivery
}

type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "OPEN"
	OrderStatusPlaced   OrderStatus = "PLACED"
	OrderStatusServed   OrderStatus = "SERVED"
	OrderStatusClosed   OrderStatus = "CLOSED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusPlaced, OrderStatusServed, OrderStatusClosed, OrderStatusCanceled:
		return true
	}
	return false
}

// Active reports whether the order still occupies its table.
func (s OrderStatus) Active() bool {
	return s == OrderStatusOpen || s == OrderStatusPlaced || s == OrderStatusServed
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusOpen:
		return next == OrderStatusPlaced || next == OrderStatusCanceled
	case OrderStatusPlaced:
		return next == OrderStatusServed || next == OrderStatusCanceled
	case OrderStatusServed:
		return next == OrderStatusClosed
	}
	return false
}

type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	BranchID      uint         `gorm:"not null;index" json:"branch_id"`
	Branch        Branch       `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Type          OrderType    `gorm:"type:varchar(20);not null;default:'DINE_IN'" json:"type"`
	TableID       *uint        `gorm:"index" json:"table_id,omitempty"`
	Table         *Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	Status        OrderStatus  `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	TotalAmount   float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CashSessionID *uint        `gorm:"index" json:"cash_session_id,omitempty"`
	CashSession   *CashSession `gorm:"foreignKey:CashSessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Items         []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID    uint      `gorm:"not null" json:"menu_id"`
	Menu      Menu      `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
