package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB opens a private in-memory SQLite database per test. The pool
// is pinned to one connection: shared-cache memory databases vanish when
// their last connection closes, and a single connection also serialises
// concurrent transactions the way the race tests need.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.Table{},
		&models.TableStatusLog{},
		&models.TimeSlot{},
		&models.TimeSlotTable{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.Printer{},
		&models.Ticket{},
	))
	return db
}

func seedBranch(t *testing.T, db *gorm.DB) *models.Branch {
	t.Helper()
	branch := &models.Branch{Name: "Downtown", Timezone: "UTC", Currency: "USD", IsActive: true}
	require.NoError(t, db.Create(branch).Error)
	return branch
}

func seedTable(t *testing.T, db *gorm.DB, branchID uint, number string, capacity int, shared bool) *models.Table {
	t.Helper()
	table := &models.Table{
		BranchID:    branchID,
		TableNumber: number,
		Capacity:    capacity,
		IsShared:    shared,
		IsActive:    true,
	}
	require.NoError(t, db.Create(table).Error)
	return table
}

func seedSlot(t *testing.T, db *gorm.DB, branchID uint, name, start, end string) *models.TimeSlot {
	t.Helper()
	slot := &models.TimeSlot{
		BranchID:   branchID,
		Name:       name,
		StartTime:  start,
		EndTime:    end,
		DaysOfWeek: "0,1,2,3,4,5,6",
		IsActive:   true,
	}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

func linkExclusive(t *testing.T, db *gorm.DB, slotID, tableID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.TimeSlotTable{
		TimeSlotID:  slotID,
		TableID:     tableID,
		IsExclusive: true,
	}).Error)
}

// seedReservation writes a reservation and its table links directly,
// bypassing the booking flow, for capacity arithmetic tests.
func seedReservation(t *testing.T, db *gorm.DB, branchID, slotID uint, date string, people int,
	status models.ReservationStatus, tableIDs ...uint) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		Code:         fmt.Sprintf("seed-%d", atomic.AddInt64(&testDBSeq, 1)),
		BranchID:     branchID,
		CustomerName: "Seeded Guest",
		Date:         date,
		TimeSlotID:   slotID,
		People:       people,
		Status:       status,
	}
	require.NoError(t, db.Create(r).Error)
	for _, id := range tableIDs {
		require.NoError(t, db.Create(&models.ReservationTable{ReservationID: r.ID, TableID: id}).Error)
	}
	return r
}

// testDate is a Friday; every seeded slot runs all week.
const testDate = "2026-09-04"
