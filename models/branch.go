package models

import (
	"fmt"
	"time"
)

type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Timezone  string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Currency  string    `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Location resolves the branch's configured IANA timezone, falling back
// to UTC when the value is empty or unknown.
func (b *Branch) Location() *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayOf resolves the weekday of a calendar date (YYYY-MM-DD) in the
// branch's timezone. Day-of-week is derived here once, at the boundary,
// never from server-local time.
func (b *Branch) DayOf(date string) (time.Weekday, error) {
	t, err := time.ParseInLocation("2006-01-02", date, b.Location())
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Weekday(), nil
}

// Today returns the current calendar date in the branch's timezone.
func (b *Branch) Today() string {
	return time.Now().In(b.Location()).Format("2006-01-02")
}
