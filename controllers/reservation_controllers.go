package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bistrodev/bistro-pos/dispatch"
	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/services"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewReservationController(db *gorm.DB, sink services.NotificationSink) *ReservationController {
	return &ReservationController{
		DB:      db,
		Service: services.NewReservationService(db, sink),
	}
}

// CheckAvailability runs the assignment engine without persisting
// anything: a dry run for the booking form.
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	branchID, err := strconv.ParseUint(c.Param("branch_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid branch id"))
		return
	}
	slotID, err := strconv.ParseUint(c.Query("time_slot_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("time_slot_id is required"))
		return
	}
	people, err := strconv.Atoi(c.Query("people"))
	if err != nil || people <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("people must be a positive number"))
		return
	}
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("date is required"))
		return
	}

	engine := services.NewAssignmentService(rc.DB)
	assignment, err := engine.Assign(uint(branchID), date, uint(slotID), people)
	if err != nil {
		rc.respondAssignError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables available", assignment)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		BranchID      uint     `json:"branch_id" binding:"required"`
		Date          string   `json:"date" binding:"required"`
		TimeSlotID    uint     `json:"time_slot_id" binding:"required"`
		People        int      `json:"people" binding:"required,gt=0"`
		CustomerName  string   `json:"customer_name" binding:"required"`
		CustomerPhone string   `json:"customer_phone"`
		CustomerEmail string   `json:"customer_email"`
		Notes         string   `json:"notes"`
		Confirm       bool     `json:"confirm"`
		TableIDs      []uint   `json:"table_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	status := models.ReservationPending
	if req.Confirm {
		status = models.ReservationConfirmed
	}

	result, err := rc.Service.Book(services.BookingRequest{
		BranchID:      req.BranchID,
		Date:          req.Date,
		TimeSlotID:    req.TimeSlotID,
		People:        req.People,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
		Status:        status,
		TableIDs:      req.TableIDs,
	})
	if err != nil {
		rc.respondAssignError(c, err)
		return
	}

	dispatch.BroadcastReservationUpdate(*result.Reservation)
	utils.InfoLogger.Printf("Reservation %s created for %d people on %s (%s)",
		result.Reservation.Code, result.Reservation.People, result.Reservation.Date, result.Assignment.Type)

	message := "Reservation created"
	if result.Assignment.IsSharedTableOnly {
		message = "Reservation created on a shared table"
	}
	utils.RespondJSON(c, http.StatusCreated, message, gin.H{
		"reservation": result.Reservation,
		"assignment":  result.Assignment,
	})
}

func (rc *ReservationController) GetReservationsByBranch(c *gin.Context) {
	query := rc.DB.Preload("Tables.Table").Preload("TimeSlot").
		Where("branch_id = ?", c.Param("branch_id"))
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Order("date ASC, id ASC").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByCode looks a reservation up by its public code, for
// guests following their confirmation link.
func (rc *ReservationController) GetReservationByCode(c *gin.Context) {
	var reservation models.Reservation
	err := rc.DB.Preload("Tables.Table").Preload("TimeSlot").
		Where("code = ?", c.Param("code")).First(&reservation).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// UpdateReservationStatus drives the status machine; linked tables
// follow in the same transaction.
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid reservation id"))
		return
	}

	var body struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Transition(uint(id), body.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dispatch.BroadcastReservationUpdate(*reservation)
	utils.InfoLogger.Printf("Reservation %s moved to %s", reservation.Code, reservation.Status)
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// respondAssignError maps the engine's error taxonomy onto responses:
// missing upstream data is 404, no capacity is a normal negative answer,
// anything else is a server fault.
func (rc *ReservationController) respondAssignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBranchNotFound), errors.Is(err, services.ErrSlotNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrNoCapacity):
		utils.RespondFailure(c, "No tables can accommodate this party; pick tables manually")
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
