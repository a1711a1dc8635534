package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/bistrodev/bistro-pos/controllers"
	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
)

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	reservationCtrl := controllers.NewReservationController(db, nil)
	router.GET("/branches/:branch_id/availability", reservationCtrl.CheckAvailability)
	router.POST("/reservations", reservationCtrl.CreateReservation)
	router.GET("/reservations/code/:code", reservationCtrl.GetReservationByCode)
	router.PATCH("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)
	return router
}

func seedBookableSlot(t *testing.T, db *gorm.DB, branchID uint) (*models.TimeSlot, *models.Table) {
	t.Helper()
	slot := &models.TimeSlot{
		BranchID:   branchID,
		Name:       "Dinner",
		StartTime:  "19:00",
		EndTime:    "21:00",
		DaysOfWeek: "0,1,2,3,4,5,6",
		IsActive:   true,
	}
	if err := db.Create(slot).Error; err != nil {
		t.Fatal(err)
	}
	table := &models.Table{BranchID: branchID, TableNumber: "T1", Capacity: 4, IsActive: true}
	if err := db.Create(table).Error; err != nil {
		t.Fatal(err)
	}
	return slot, table
}

func TestCheckAvailability(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	slot, table := seedBookableSlot(t, db, branch.ID)
	router := setupReservationRouter(db)

	url := fmt.Sprintf("/branches/%d/availability?date=2026-09-04&time_slot_id=%d&people=4", branch.ID, slot.ID)
	req, _ := http.NewRequest("GET", url, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["status"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "size_match", data["assignment_type"])
	ids := data["table_ids"].([]interface{})
	assert.Equal(t, float64(table.ID), ids[0])

	// A dry run commits nothing.
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCheckAvailabilityNoCapacity(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	slot, _ := seedBookableSlot(t, db, branch.ID)
	router := setupReservationRouter(db)

	url := fmt.Sprintf("/branches/%d/availability?date=2026-09-04&time_slot_id=%d&people=40", branch.ID, slot.ID)
	req, _ := http.NewRequest("GET", url, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Running out of seats is an answer, not an error.
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["status"])
}

func TestCreateReservation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	slot, _ := seedBookableSlot(t, db, branch.ID)
	router := setupReservationRouter(db)

	payload := map[string]interface{}{
		"branch_id":     branch.ID,
		"date":          "2026-09-04",
		"time_slot_id":  slot.ID,
		"people":        4,
		"customer_name": "Dana",
		"confirm":       true,
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/reservations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	reservation := data["reservation"].(map[string]interface{})
	assert.Equal(t, "CONFIRMED", reservation["status"])
	assert.NotEmpty(t, reservation["code"])

	assignment := data["assignment"].(map[string]interface{})
	assert.Equal(t, "size_match", assignment["assignment_type"])
}

func TestCreateReservationNoCapacity(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	slot, _ := seedBookableSlot(t, db, branch.ID)
	router := setupReservationRouter(db)

	book := func() *httptest.ResponseRecorder {
		payload := map[string]interface{}{
			"branch_id":     branch.ID,
			"date":          "2026-09-04",
			"time_slot_id":  slot.ID,
			"people":        4,
			"customer_name": "Dana",
		}
		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", "/reservations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, book().Code)

	// Second party finds the only table taken: HTTP 200, status false.
	w := book()
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["status"])

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateReservationUnknownSlot(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	seedBookableSlot(t, db, branch.ID)
	router := setupReservationRouter(db)

	payload := map[string]interface{}{
		"branch_id":     branch.ID,
		"date":          "2026-09-04",
		"time_slot_id":  999,
		"people":        2,
		"customer_name": "Dana",
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/reservations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReservationByCode(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	slot, _ := seedBookableSlot(t, db, branch.ID)

	reservation := models.Reservation{
		Code:         "lookup-me",
		BranchID:     branch.ID,
		CustomerName: "Dana",
		Date:         "2026-09-04",
		TimeSlotID:   slot.ID,
		People:       2,
		Status:       models.ReservationPending,
	}
	db.Create(&reservation)

	router := setupReservationRouter(db)
	req, _ := http.NewRequest("GET", "/reservations/code/lookup-me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/reservations/code/unknown", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReservationStatusEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	branch := testBranch(t, db)
	slot, _ := seedBookableSlot(t, db, branch.ID)

	reservation := models.Reservation{
		Code:         "transition-me",
		BranchID:     branch.ID,
		CustomerName: "Dana",
		Date:         "2026-09-04",
		TimeSlotID:   slot.ID,
		People:       2,
		Status:       models.ReservationPending,
	}
	db.Create(&reservation)

	router := setupReservationRouter(db)
	url := fmt.Sprintf("/reservations/%d/status", reservation.ID)

	payload, _ := json.Marshal(map[string]string{"status": "CONFIRMED"})
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// COMPLETED straight from CONFIRMED is not a legal move.
	payload, _ = json.Marshal(map[string]string{"status": "COMPLETED"})
	req, _ = http.NewRequest("PATCH", url, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
