package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/services"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PrinterController struct {
	DB     *gorm.DB
	Router *services.TicketRouter
}

func NewPrinterController(db *gorm.DB) *PrinterController {
	return &PrinterController{
		DB:     db,
		Router: services.NewTicketRouter(db),
	}
}

func (pc *PrinterController) CreatePrinter(c *gin.Context) {
	var req struct {
		BranchID uint           `json:"branch_id" binding:"required"`
		Name     string         `json:"name" binding:"required"`
		Station  models.Station `json:"station" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.Station.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid station %q", req.Station))
		return
	}

	printer := models.Printer{
		BranchID: req.BranchID,
		Name:     req.Name,
		Station:  req.Station,
		IsActive: true,
	}
	if err := pc.DB.Create(&printer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Printer created successfully", printer)
}

func (pc *PrinterController) GetPrintersByBranch(c *gin.Context) {
	var printers []models.Printer
	err := pc.DB.Where("branch_id = ?", c.Param("branch_id")).
		Order("station, name").Find(&printers).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of printers", printers)
}

func (pc *PrinterController) UpdatePrinter(c *gin.Context) {
	var printer models.Printer
	if err := pc.DB.First(&printer, c.Param("printer_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string         `json:"name"`
		Station  *models.Station `json:"station"`
		IsActive *bool           `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Station != nil {
		if !req.Station.Valid() {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid station %q", *req.Station))
			return
		}
		updates["station"] = *req.Station
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("nothing to update"))
		return
	}

	if err := pc.DB.Model(&printer).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Printer updated", printer)
}

func (pc *PrinterController) GetTickets(c *gin.Context) {
	query := pc.DB.Model(&models.Ticket{}).
		Joins("JOIN orders ON orders.id = tickets.order_id").
		Where("orders.branch_id = ?", c.Param("branch_id"))
	if status := c.Query("status"); status != "" {
		query = query.Where("tickets.status = ?", status)
	}
	if station := c.Query("station"); station != "" {
		query = query.Where("tickets.station = ?", station)
	}

	var tickets []models.Ticket
	if err := query.Order("tickets.id DESC").Limit(200).Find(&tickets).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tickets", tickets)
}

// RequeueTicket resends a failed ticket, optionally to another printer.
func (pc *PrinterController) RequeueTicket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("ticket_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid ticket id"))
		return
	}

	var body struct {
		PrinterID *uint `json:"printer_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ticket, err := pc.Router.Requeue(uint(id), body.PrinterID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket requeued", ticket)
}

// AcknowledgeTicket lets a print agent report the outcome of a send.
func (pc *PrinterController) AcknowledgeTicket(c *gin.Context) {
	var body struct {
		Status models.TicketStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Status != models.TicketSent && body.Status != models.TicketFailed {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("status must be SENT or FAILED"))
		return
	}

	var ticket models.Ticket
	if err := pc.DB.First(&ticket, c.Param("ticket_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := pc.DB.Model(&ticket).Update("status", body.Status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket updated", ticket)
}
