package services

import (
	"testing"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignExactMatchWins(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	seedTable(t, db, branch.ID, "T1", 8, false)
	exact := seedTable(t, db, branch.ID, "T2", 5, false)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, AssignmentSizeMatch, asg.Type)
	assert.Equal(t, []uint{exact.ID}, asg.TableIDs)
	assert.Equal(t, 5, asg.TotalCapacity)
	assert.False(t, asg.IsSharedTableOnly)
}

func TestAssignExclusivePoolBeforeShared(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	private := seedTable(t, db, branch.ID, "P1", 6, false)
	seedTable(t, db, branch.ID, "T1", 6, false)
	linkExclusive(t, db, slot.ID, private.ID)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, AssignmentExclusive, asg.Type)
	assert.Equal(t, []uint{private.ID}, asg.TableIDs)
}

func TestAssignExactMatchBeatsExclusive(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	private := seedTable(t, db, branch.ID, "P1", 6, false)
	exact := seedTable(t, db, branch.ID, "T1", 5, false)
	linkExclusive(t, db, slot.ID, private.ID)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, AssignmentSizeMatch, asg.Type)
	assert.Equal(t, []uint{exact.ID}, asg.TableIDs)
}

func TestAssignCombinesSmallestFit(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	two := seedTable(t, db, branch.ID, "T1", 2, false)
	seedTable(t, db, branch.ID, "T2", 3, false)
	five := seedTable(t, db, branch.ID, "T3", 5, false)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, AssignmentCombined, asg.Type)
	assert.Equal(t, []uint{two.ID, five.ID}, asg.TableIDs)
	assert.Equal(t, 7, asg.TotalCapacity)
}

func TestAssignSharedTableFlagged(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Lunch", "12:00", "14:00")
	communal := seedTable(t, db, branch.ID, "C1", 10, true)
	seedReservation(t, db, branch.ID, slot.ID, testDate, 3, models.ReservationConfirmed, communal.ID)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, AssignmentSharedTable, asg.Type)
	assert.Equal(t, []uint{communal.ID}, asg.TableIDs)
	assert.True(t, asg.IsSharedTableOnly)
}

func TestAssignSharedPoolSingle(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	table := seedTable(t, db, branch.ID, "T1", 5, false)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, AssignmentSharedPool, asg.Type)
	assert.Equal(t, []uint{table.ID}, asg.TableIDs)
	assert.Equal(t, 5, asg.TotalCapacity)
}

func TestAssignNoCapacity(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	seedTable(t, db, branch.ID, "T1", 2, false)
	seedTable(t, db, branch.ID, "T2", 2, false)

	_, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 12)
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestAssignRespectsManualOverride(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	table := seedTable(t, db, branch.ID, "T1", 6, false)

	table.Status = models.TableStatusCleaning
	require.NoError(t, db.Save(table).Error)

	_, err := NewAssignmentService(db).Assign(branch.ID, testDate, slot.ID, 4)
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestAssignCrossSlotContention(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	communal := seedTable(t, db, branch.ID, "C1", 10, true)
	lunch := seedSlot(t, db, branch.ID, "Lunch", "12:00", "14:00")
	tea := seedSlot(t, db, branch.ID, "Tea", "13:00", "15:00")

	// Eight seats went to a Tea party; Lunch sees only the leftovers.
	seedReservation(t, db, branch.ID, tea.ID, testDate, 8, models.ReservationConfirmed, communal.ID)

	_, err := NewAssignmentService(db).Assign(branch.ID, testDate, lunch.ID, 4)
	assert.ErrorIs(t, err, ErrNoCapacity)

	asg, err := NewAssignmentService(db).Assign(branch.ID, testDate, lunch.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, AssignmentSizeMatch, asg.Type)
}

func TestAssignMissingData(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	slot := seedSlot(t, db, branch.ID, "Dinner", "19:00", "21:00")
	seedTable(t, db, branch.ID, "T1", 4, false)

	svc := NewAssignmentService(db)

	_, err := svc.Assign(branch.ID+99, testDate, slot.ID, 2)
	assert.ErrorIs(t, err, ErrBranchNotFound)

	_, err = svc.Assign(branch.ID, testDate, slot.ID+99, 2)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = svc.Assign(branch.ID, testDate, slot.ID, 0)
	assert.Error(t, err)

	_, err = svc.Assign(branch.ID, "someday", slot.ID, 2)
	assert.Error(t, err)
}

func TestAssignInactiveOrOffDaySlot(t *testing.T) {
	db := newTestDB(t)
	branch := seedBranch(t, db)
	seedTable(t, db, branch.ID, "T1", 4, false)

	weekend := seedSlot(t, db, branch.ID, "Brunch", "11:00", "13:00")
	weekend.DaysOfWeek = "0,6"
	require.NoError(t, db.Save(weekend).Error)

	// testDate is a Friday.
	_, err := NewAssignmentService(db).Assign(branch.ID, testDate, weekend.ID, 2)
	assert.ErrorIs(t, err, ErrNoCapacity)

	retired := seedSlot(t, db, branch.ID, "Old Dinner", "19:00", "21:00")
	retired.IsActive = false
	require.NoError(t, db.Save(retired).Error)

	_, err = NewAssignmentService(db).Assign(branch.ID, testDate, retired.ID, 2)
	assert.ErrorIs(t, err, ErrNoCapacity)
}
