package controllers

import (
	"fmt"
	"net/http"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TimeSlotController struct {
	DB *gorm.DB
}

func NewTimeSlotController(db *gorm.DB) *TimeSlotController {
	return &TimeSlotController{DB: db}
}

func (sc *TimeSlotController) CreateTimeSlot(c *gin.Context) {
	var req struct {
		BranchID   uint   `json:"branch_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
		StartTime  string `json:"start_time" binding:"required"`
		EndTime    string `json:"end_time" binding:"required"`
		DaysOfWeek string `json:"days_of_week"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.DaysOfWeek == "" {
		req.DaysOfWeek = "0,1,2,3,4,5,6"
	}
	if !models.ValidDaysOfWeek(req.DaysOfWeek) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid days_of_week %q", req.DaysOfWeek))
		return
	}

	slot := models.TimeSlot{
		BranchID:   req.BranchID,
		Name:       req.Name,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		DaysOfWeek: req.DaysOfWeek,
		IsActive:   true,
	}
	if _, _, err := slot.Window(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var branch models.Branch
	if err := sc.DB.First(&branch, req.BranchID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("branch %d not found", req.BranchID))
		return
	}

	if err := sc.DB.Create(&slot).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New time slot created: %s %s-%s", slot.Name, slot.StartTime, slot.EndTime)
	utils.RespondJSON(c, http.StatusCreated, "Time slot created successfully", slot)
}

func (sc *TimeSlotController) GetTimeSlotsByBranch(c *gin.Context) {
	var slots []models.TimeSlot
	err := sc.DB.Preload("Tables.Table").
		Where("branch_id = ?", c.Param("branch_id")).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of time slots", slots)
}

func (sc *TimeSlotController) UpdateTimeSlot(c *gin.Context) {
	var slot models.TimeSlot
	if err := sc.DB.First(&slot, c.Param("slot_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name       *string `json:"name"`
		StartTime  *string `json:"start_time"`
		EndTime    *string `json:"end_time"`
		DaysOfWeek *string `json:"days_of_week"`
		IsActive   *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		slot.Name = *req.Name
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.DaysOfWeek != nil {
		if !models.ValidDaysOfWeek(*req.DaysOfWeek) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid days_of_week %q", *req.DaysOfWeek))
			return
		}
		slot.DaysOfWeek = *req.DaysOfWeek
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if _, _, err := slot.Window(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := sc.DB.Save(&slot).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Time slot updated", slot)
}

// AssignTables replaces the slot's table links. Exclusive links claim
// the table for this slot alone and block it from every overlapping
// slot's shared pool.
func (sc *TimeSlotController) AssignTables(c *gin.Context) {
	var slot models.TimeSlot
	if err := sc.DB.First(&slot, c.Param("slot_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Tables []struct {
			TableID     uint `json:"table_id" binding:"required"`
			IsExclusive bool `json:"is_exclusive"`
		} `json:"tables" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("time_slot_id = ?", slot.ID).Delete(&models.TimeSlotTable{}).Error; err != nil {
			return err
		}
		for _, entry := range req.Tables {
			var table models.Table
			if err := tx.Where("id = ? AND branch_id = ?", entry.TableID, slot.BranchID).First(&table).Error; err != nil {
				return fmt.Errorf("table %d does not belong to this branch", entry.TableID)
			}
			link := models.TimeSlotTable{
				TimeSlotID:  slot.ID,
				TableID:     entry.TableID,
				IsExclusive: entry.IsExclusive,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var links []models.TimeSlotTable
	sc.DB.Preload("Table").Where("time_slot_id = ?", slot.ID).Find(&links)
	utils.InfoLogger.Printf("Time slot %d now has %d table assignments", slot.ID, len(links))
	utils.RespondJSON(c, http.StatusOK, "Tables assigned to time slot", links)
}

func (sc *TimeSlotController) DeleteTimeSlot(c *gin.Context) {
	var slot models.TimeSlot
	if err := sc.DB.First(&slot, c.Param("slot_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var active int64
	sc.DB.Model(&models.Reservation{}).
		Where("time_slot_id = ? AND status IN ?", slot.ID,
			[]models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed, models.ReservationSeated}).
		Count(&active)
	if active > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("time slot has %d active reservations", active))
		return
	}

	if err := sc.DB.Select("Tables").Delete(&slot).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Time slot deleted", gin.H{"id": slot.ID})
}
