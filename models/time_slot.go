package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeSlot is a named recurring service window for a branch, e.g.
// "Dinner 19:00-21:00" on Friday and Saturday. Start and end are stored
// as HH:MM time-of-day.
type TimeSlot struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BranchID   uint            `gorm:"not null;index" json:"branch_id"`
	Branch     Branch          `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	StartTime  string          `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string          `gorm:"type:varchar(5);not null" json:"end_time"`
	DaysOfWeek string          `gorm:"type:varchar(30);not null;default:'0,1,2,3,4,5,6'" json:"days_of_week"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	Tables     []TimeSlotTable `gorm:"foreignKey:TimeSlotID" json:"tables,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

// TimeSlotTable links a time slot to a table. An exclusive link claims
// the table for this slot's private pool and removes it from the shared
// pool of every overlapping slot.
type TimeSlotTable struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TimeSlotID  uint      `gorm:"not null;index" json:"time_slot_id"`
	TimeSlot    TimeSlot  `gorm:"foreignKey:TimeSlotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableID     uint      `gorm:"not null;index" json:"table_id"`
	Table       Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"table"`
	IsExclusive bool      `gorm:"not null;default:false" json:"is_exclusive"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// MinutesOfDay parses an HH:MM time-of-day into minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	return h*60 + m, nil
}

// Window returns the slot's [start, end) window in minutes since midnight.
func (ts *TimeSlot) Window() (int, int, error) {
	start, err := MinutesOfDay(ts.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := MinutesOfDay(ts.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("time slot %d has empty window %s-%s", ts.ID, ts.StartTime, ts.EndTime)
	}
	return start, end, nil
}

// Overlaps reports whether two slots' half-open windows intersect:
// startA < endB AND endA > startB. Slots with malformed windows never
// overlap anything; they are excluded from aggregation instead of
// failing the whole computation.
func (ts *TimeSlot) Overlaps(other *TimeSlot) bool {
	startA, endA, err := ts.Window()
	if err != nil {
		return false
	}
	startB, endB, err := other.Window()
	if err != nil {
		return false
	}
	return startA < endB && endA > startB
}

// ActiveOn reports whether the slot runs on the given weekday.
func (ts *TimeSlot) ActiveOn(day time.Weekday) bool {
	for _, part := range strings.Split(ts.DaysOfWeek, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if time.Weekday(n) == day {
			return true
		}
	}
	return false
}

// ValidDaysOfWeek checks a comma-separated weekday list (0=Sunday .. 6=Saturday).
func ValidDaysOfWeek(days string) bool {
	if strings.TrimSpace(days) == "" {
		return false
	}
	for _, part := range strings.Split(days, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return false
		}
	}
	return true
}
