package models

import "time"

type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "OPEN"
	CashSessionClosed CashSessionStatus = "CLOSED"
)

// CashSession is one register shift: opened with a float, fed by
// movements and cash orders, closed against a counted amount.
type CashSession struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Reference      string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	BranchID       uint              `gorm:"not null;index" json:"branch_id"`
	Branch         Branch            `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OpenedByID     uint              `gorm:"not null" json:"opened_by_id"`
	OpenedBy       User              `gorm:"foreignKey:OpenedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ClosedByID     *uint             `json:"closed_by_id,omitempty"`
	Status         CashSessionStatus `gorm:"type:varchar(10);not null;default:'OPEN'" json:"status"`
	OpeningAmount  float64           `gorm:"type:decimal(10,2);not null" json:"opening_amount"`
	ClosingAmount  *float64          `gorm:"type:decimal(10,2)" json:"closing_amount,omitempty"`
	ExpectedAmount *float64          `gorm:"type:decimal(10,2)" json:"expected_amount,omitempty"`
	OpenedAt       time.Time         `gorm:"not null" json:"opened_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
	Movements      []CashMovement    `gorm:"foreignKey:CashSessionID" json:"movements,omitempty"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updated_at"`
}

type CashDirection string

const (
	CashIn  CashDirection = "IN"
	CashOut CashDirection = "OUT"
)

type CashMovement struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CashSessionID uint          `gorm:"not null;index" json:"cash_session_id"`
	CashSession   CashSession   `gorm:"foreignKey:CashSessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Direction     CashDirection `gorm:"type:varchar(3);not null" json:"direction"`
	Amount        float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Reason        string        `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedByID   *uint         `json:"created_by_id,omitempty"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
}

// ExpectedBalance is the opening float plus every movement, signed.
func (s *CashSession) ExpectedBalance() float64 {
	total := s.OpeningAmount
	for _, m := range s.Movements {
		switch m.Direction {
		case CashIn:
			total += m.Amount
		case CashOut:
			total -= m.Amount
		}
	}
	return total
}
