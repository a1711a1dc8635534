package controllers

import (
	"fmt"
	"net/http"

	"github.com/bistrodev/bistro-pos/dispatch"
	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		BranchID    uint    `json:"branch_id" binding:"required"`
		TableNumber string  `json:"table_number" binding:"required"`
		Capacity    int     `json:"capacity" binding:"required,gt=0"`
		IsShared    bool    `json:"is_shared"`
		Floor       int     `json:"floor"`
		PosX        float64 `json:"pos_x"`
		PosY        float64 `json:"pos_y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var branch models.Branch
	if err := tc.DB.First(&branch, req.BranchID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("branch %d not found", req.BranchID))
		return
	}

	table := models.Table{
		BranchID:    req.BranchID,
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		IsShared:    req.IsShared,
		IsActive:    true,
		Floor:       req.Floor,
		PosX:        req.PosX,
		PosY:        req.PosY,
	}
	if table.Floor == 0 {
		table.Floor = 1
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dispatch.BroadcastMessage(dispatch.Message{
		Event: dispatch.EventTableCreate,
		Data:  table,
	})

	utils.InfoLogger.Printf("New table created: %s (capacity=%d shared=%v)", table.TableNumber, table.Capacity, table.IsShared)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

func (tc *TableController) GetTablesByBranch(c *gin.Context) {
	query := tc.DB.Where("branch_id = ?", c.Param("branch_id"))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var tables []models.Table
	if err := query.Order("floor ASC, table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetFloorPlan groups a branch's tables by floor with their live status
// and position, for the floor-plan screen.
func (tc *TableController) GetFloorPlan(c *gin.Context) {
	var tables []models.Table
	err := tc.DB.
		Where("branch_id = ? AND is_active = ?", c.Param("branch_id"), true).
		Order("floor ASC, table_number ASC").
		Find(&tables).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	floors := make(map[int][]models.Table)
	for _, t := range tables {
		floors[t.Floor] = append(floors[t.Floor], t)
	}
	utils.RespondJSON(c, http.StatusOK, "Floor plan", gin.H{
		"floors": floors,
		"stats":  tc.getDashboardStats(c.Param("branch_id")),
	})
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		TableNumber *string  `json:"table_number"`
		Capacity    *int     `json:"capacity"`
		IsShared    *bool    `json:"is_shared"`
		IsActive    *bool    `json:"is_active"`
		Floor       *int     `json:"floor"`
		PosX        *float64 `json:"pos_x"`
		PosY        *float64 `json:"pos_y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("capacity must be positive"))
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.IsShared != nil {
		table.IsShared = *req.IsShared
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if req.Floor != nil {
		table.Floor = *req.Floor
	}
	if req.PosX != nil {
		table.PosX = *req.PosX
	}
	if req.PosY != nil {
		table.PosY = *req.PosY
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dispatch.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// UpdateTableStatus is the manual override: staff marking a table
// OCCUPIED, RESERVED, CLEANING or back to EMPTY. Every override is
// logged for audit, and the override wins over any computed capacity.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	var body struct {
		Status models.TableStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Status.Valid() || body.Status == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table status %q", body.Status))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var userID *uint
	if id, exists := c.Get("userID"); exists {
		if uid, ok := id.(uint); ok {
			userID = &uid
		}
	}

	oldStatus := table.Status
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		table.Status = body.Status
		if err := tx.Save(&table).Error; err != nil {
			return err
		}
		log := models.TableStatusLog{
			TableID:   table.ID,
			UserID:    userID,
			OldStatus: oldStatus,
			NewStatus: body.Status,
			Reason:    body.Reason,
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dispatch.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d status changed to %s (manual)", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dispatch.BroadcastMessage(dispatch.Message{
		Event: dispatch.EventTableDelete,
		Data:  gin.H{"table_id": table.ID},
	})

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// getDashboardStats counts tables per status for one branch.
func (tc *TableController) getDashboardStats(branchID string) map[string]interface{} {
	counts := make(map[models.TableStatus]int64)
	for _, status := range []models.TableStatus{
		models.TableStatusOccupied, models.TableStatusReserved, models.TableStatusCleaning,
	} {
		var n int64
		tc.DB.Model(&models.Table{}).
			Where("branch_id = ? AND is_active = ? AND status = ?", branchID, true, status).
			Count(&n)
		counts[status] = n
	}

	var total int64
	tc.DB.Model(&models.Table{}).Where("branch_id = ? AND is_active = ?", branchID, true).Count(&total)
	free := total - counts[models.TableStatusOccupied] - counts[models.TableStatusReserved] - counts[models.TableStatusCleaning]

	return map[string]interface{}{
		"free":     free,
		"occupied": counts[models.TableStatusOccupied],
		"reserved": counts[models.TableStatusReserved],
		"cleaning": counts[models.TableStatusCleaning],
		"total":    total,
	}
}
