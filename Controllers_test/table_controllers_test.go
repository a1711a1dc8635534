package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bistrodev/bistro-pos/controllers"
	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
)

var dbSeq int64

// setupTestDB opens a fresh in-memory SQLite database with the full
// schema. Each test gets its own database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ctrl_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
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
		&models.CashSession{},
		&models.CashMovement{},
		&models.Printer{},
		&models.Ticket{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func testBranch(t *testing.T, db *gorm.DB) *models.Branch {
	t.Helper()
	branch := &models.Branch{Name: "Downtown", Timezone: "UTC", Currency: "USD", IsActive: true}
	if err := db.Create(branch).Error; err != nil {
		t.Fatal(err)
	}
	return branch
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/branches/:branch_id/tables", tableCtrl.GetTablesByBranch)
	router.GET("/branches/:branch_id/floor-plan", tableCtrl.GetFloorPlan)
	router.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	return router
}

func TestCreateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"branch_id":    branch.ID,
		"table_number": "A1",
		"capacity":     4,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", "/tables", bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Table created successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "A1", data["table_number"])
	assert.Equal(t, float64(1), data["floor"], "floor defaults to 1")
}

func TestCreateTableUnknownBranch(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"branch_id":    999,
		"table_number": "A1",
		"capacity":     4,
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/tables", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTablesByBranch(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)

	db.Create(&models.Table{BranchID: branch.ID, TableNumber: "A1", Capacity: 2, IsActive: true})
	db.Create(&models.Table{BranchID: branch.ID, TableNumber: "B1", Capacity: 4, IsActive: true})

	other := testBranch(t, db)
	db.Create(&models.Table{BranchID: other.ID, TableNumber: "Z1", Capacity: 4, IsActive: true})

	router := setupTableRouter(db)
	url := fmt.Sprintf("/branches/%d/tables", branch.ID)
	req, err := http.NewRequest("GET", url, nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "List of tables", response["message"])
	data := response["data"].([]interface{})
	assert.Len(t, data, 2, "tables from other branches stay out")
}

func TestUpdateTableStatusLogsOverride(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)

	table := models.Table{BranchID: branch.ID, TableNumber: "C1", Capacity: 4, IsActive: true}
	db.Create(&table)

	router := setupTableRouter(db)
	payload := map[string]string{"status": "CLEANING", "reason": "spilled wine"}
	body, _ := json.Marshal(payload)

	url := "/tables/" + strconv.Itoa(int(table.ID)) + "/status"
	req, err := http.NewRequest("PATCH", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Table status updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "CLEANING", data["status"])

	var logs []models.TableStatusLog
	db.Where("table_id = ?", table.ID).Find(&logs)
	assert.Len(t, logs, 1)
	assert.Equal(t, models.TableStatusCleaning, logs[0].NewStatus)
	assert.Equal(t, "spilled wine", logs[0].Reason)
}

func TestUpdateTableStatusRejectsUnknown(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	table := models.Table{BranchID: branch.ID, TableNumber: "C1", Capacity: 4, IsActive: true}
	db.Create(&table)

	router := setupTableRouter(db)
	payload := map[string]string{"status": "BROKEN"}
	body, _ := json.Marshal(payload)
	url := "/tables/" + strconv.Itoa(int(table.ID)) + "/status"
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFloorPlanStats(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)

	db.Create(&models.Table{BranchID: branch.ID, TableNumber: "A1", Capacity: 2, IsActive: true, Floor: 1})
	db.Create(&models.Table{BranchID: branch.ID, TableNumber: "A2", Capacity: 4, IsActive: true, Floor: 1, Status: models.TableStatusOccupied})
	db.Create(&models.Table{BranchID: branch.ID, TableNumber: "B1", Capacity: 6, IsActive: true, Floor: 2})

	router := setupTableRouter(db)
	url := fmt.Sprintf("/branches/%d/floor-plan", branch.ID)
	req, _ := http.NewRequest("GET", url, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	floors := data["floors"].(map[string]interface{})
	assert.Len(t, floors, 2)

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["total"])
	assert.Equal(t, float64(1), stats["occupied"])
	assert.Equal(t, float64(2), stats["free"])
}
