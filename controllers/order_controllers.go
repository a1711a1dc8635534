package controllers

import (
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

type OrderController struct {
	DB     *gorm.DB
	Router *services.TicketRouter
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:     db,
		Router: services.NewTicketRouter(db),
	}
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		BranchID uint             `json:"branch_id" binding:"required"`
		Type     models.OrderType `json:"type" binding:"required"`
		TableID  *uint            `json:"table_id"`
		Items    []struct {
			MenuID   uint   `json:"menu_id" binding:"required"`
			Quantity int    `json:"quantity" binding:"required,gt=0"`
			Notes    string `json:"notes"`
		} `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.Type.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order type %q", req.Type))
		return
	}
	if req.Type == models.OrderDineIn && req.TableID == nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("dine-in orders need a table"))
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if req.TableID != nil {
			if err := claimOrderTable(tx, req.BranchID, *req.TableID); err != nil {
				return err
			}
		}

		order = models.Order{
			BranchID: req.BranchID,
			Type:     req.Type,
			TableID:  req.TableID,
			Status:   models.OrderStatusOpen,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, entry := range req.Items {
			var menu models.Menu
			if err := tx.Where("id = ? AND is_available = ?", entry.MenuID, true).First(&menu).Error; err != nil {
				return fmt.Errorf("menu item %d is not available", entry.MenuID)
			}
			item := models.OrderItem{
				OrderID:  order.ID,
				MenuID:   menu.ID,
				Quantity: entry.Quantity,
				Price:    menu.Price, // snapshot; menu prices change
				Notes:    entry.Notes,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total += menu.Price * float64(entry.Quantity)
		}
		return tx.Model(&order).Update("total_amount", total).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	oc.DB.Preload("Items.Menu").Preload("Table").First(&order, order.ID)
	dispatch.BroadcastOrderUpdate(order)
	utils.InfoLogger.Printf("Order %d created (%s, total=%s)", order.ID, order.Type, utils.FormatMoney(order.TotalAmount))
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
}

func (oc *OrderController) GetOrdersByBranch(c *gin.Context) {
	query := oc.DB.Preload("Items.Menu").Preload("Table").
		Where("branch_id = ?", c.Param("branch_id"))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	err := oc.DB.Preload("Items.Menu").Preload("Table").First(&order, c.Param("order_id")).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus walks the order through its lifecycle. Placing an
// order routes its tickets; closing or cancelling releases the table.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order status %q", body.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !order.Status.CanTransitionTo(body.Status) {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("cannot move order from %s to %s", order.Status, body.Status))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": body.Status}

		// Closed orders settle into the branch's open register shift.
		if body.Status == models.OrderStatusClosed {
			var session models.CashSession
			err := tx.Where("branch_id = ? AND status = ?", order.BranchID, models.CashSessionOpen).
				First(&session).Error
			if err == nil {
				updates["cash_session_id"] = session.ID
				order.CashSessionID = &session.ID
			} else if err != gorm.ErrRecordNotFound {
				return err
			}
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		order.Status = body.Status

		if !body.Status.Active() && order.TableID != nil {
			if err := releaseOrderTable(tx, *order.TableID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Status == models.OrderStatusPlaced {
		if _, err := oc.Router.RouteOrder(order.ID); err != nil {
			utils.ErrorLogger.Printf("Failed to route tickets for order %d: %v", order.ID, err)
		}
	}

	dispatch.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// MoveTable moves a dine-in order to another table, consulting the same
// occupancy facts as the assignment engine: the destination is claimed
// with a conditional write, then the source is released.
func (oc *OrderController) MoveTable(c *gin.Context) {
	var body struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !order.Status.Active() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order %d is no longer active", order.ID))
		return
	}
	if order.TableID != nil && *order.TableID == body.TableID {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order is already on table %d", body.TableID))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := claimOrderTable(tx, order.BranchID, body.TableID); err != nil {
			return err
		}
		// Release before the update: gorm writes the new id back into
		// order.TableID, so the source id must be read out first.
		if order.TableID != nil {
			if err := releaseOrderTable(tx, *order.TableID); err != nil {
				return err
			}
		}
		if err := tx.Model(&order).Update("table_id", body.TableID).Error; err != nil {
			return err
		}
		order.TableID = &body.TableID
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	dispatch.BroadcastOrderUpdate(order)
	utils.InfoLogger.Printf("Order %d moved to table %d", order.ID, body.TableID)
	utils.RespondJSON(c, http.StatusOK, "Order moved", order)
}

// ReprintTickets re-routes an order's items, e.g. after a printer died.
func (oc *OrderController) ReprintTickets(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order id"))
		return
	}

	tickets, err := oc.Router.RouteOrder(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tickets routed", tickets)
}

// claimOrderTable takes a table for an order with a conditional write;
// zero rows affected means the table is held by someone else.
func claimOrderTable(tx *gorm.DB, branchID, tableID uint) error {
	var table models.Table
	if err := tx.Where("id = ? AND branch_id = ?", tableID, branchID).First(&table).Error; err != nil {
		return fmt.Errorf("table %d not found on this branch", tableID)
	}
	if table.IsShared {
		// Communal tables host walk-in orders without an exclusive hold.
		return nil
	}

	res := tx.Model(&models.Table{}).
		Where("id = ? AND is_active = ? AND status IN ?", tableID, true,
			[]models.TableStatus{"", models.TableStatusEmpty}).
		Update("status", models.TableStatusOccupied)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("table %d is not available", tableID)
	}
	return nil
}

func releaseOrderTable(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableStatusOccupied).
		Update("status", models.TableStatusEmpty).Error
}
