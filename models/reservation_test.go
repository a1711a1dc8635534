package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationTableStatus(t *testing.T) {
	cases := []struct {
		status ReservationStatus
		want   TableStatus
	}{
		{ReservationPending, TableStatusReserved},
		{ReservationConfirmed, TableStatusReserved},
		{ReservationSeated, TableStatusOccupied},
		{ReservationCompleted, TableStatusEmpty},
		{ReservationCanceled, TableStatusEmpty},
		{ReservationNoShow, TableStatusEmpty},
	}
	for _, tc := range cases {
		got, err := tc.status.TableStatus()
		assert.NoError(t, err, string(tc.status))
		assert.Equal(t, tc.want, got, string(tc.status))
	}
}

func TestReservationTableStatusUnknown(t *testing.T) {
	_, err := ReservationStatus("WAITLISTED").TableStatus()
	assert.Error(t, err)
}

func TestCountsForCapacity(t *testing.T) {
	assert.True(t, ReservationPending.CountsForCapacity())
	assert.True(t, ReservationConfirmed.CountsForCapacity())

	// Seated parties hold tables through table status, not arithmetic.
	assert.False(t, ReservationSeated.CountsForCapacity())
	assert.False(t, ReservationCompleted.CountsForCapacity())
	assert.False(t, ReservationCanceled.CountsForCapacity())
	assert.False(t, ReservationNoShow.CountsForCapacity())
}

func TestReservationTransitions(t *testing.T) {
	assert.True(t, ReservationPending.CanTransitionTo(ReservationConfirmed))
	assert.True(t, ReservationPending.CanTransitionTo(ReservationSeated))
	assert.True(t, ReservationPending.CanTransitionTo(ReservationCanceled))
	assert.True(t, ReservationConfirmed.CanTransitionTo(ReservationNoShow))
	assert.True(t, ReservationSeated.CanTransitionTo(ReservationCompleted))

	assert.False(t, ReservationSeated.CanTransitionTo(ReservationCanceled))
	assert.False(t, ReservationCompleted.CanTransitionTo(ReservationPending))
	assert.False(t, ReservationCanceled.CanTransitionTo(ReservationConfirmed))
	assert.False(t, ReservationConfirmed.CanTransitionTo(ReservationPending))
}

func TestTableAvailable(t *testing.T) {
	table := Table{IsActive: true}
	assert.True(t, table.Available())

	table.Status = TableStatusEmpty
	assert.True(t, table.Available())

	table.Status = TableStatusCleaning
	assert.False(t, table.Available())

	table.Status = ""
	table.IsActive = false
	assert.False(t, table.Available())
}

func TestBranchDayOf(t *testing.T) {
	branch := Branch{Timezone: "UTC"}

	day, err := branch.DayOf("2026-09-04")
	assert.NoError(t, err)
	assert.Equal(t, "Friday", day.String())

	_, err = branch.DayOf("04-09-2026")
	assert.Error(t, err)

	// An unknown timezone falls back to UTC instead of failing.
	odd := Branch{Timezone: "Mars/Olympus"}
	day, err = odd.DayOf("2026-09-06")
	assert.NoError(t, err)
	assert.Equal(t, "Sunday", day.String())
}
