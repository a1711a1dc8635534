package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionController struct {
	DB *gorm.DB
}

func NewCashSessionController(db *gorm.DB) *CashSessionController {
	return &CashSessionController{DB: db}
}

// OpenSession starts a register shift. A branch can only run one open
// session at a time.
func (cc *CashSessionController) OpenSession(c *gin.Context) {
	var req struct {
		BranchID      uint    `json:"branch_id" binding:"required"`
		OpeningAmount float64 `json:"opening_amount" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, ok := c.Get("userID")
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("missing user identity"))
		return
	}

	var session models.CashSession
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&models.CashSession{}).
			Where("branch_id = ? AND status = ?", req.BranchID, models.CashSessionOpen).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("branch %d already has an open cash session", req.BranchID)
		}

		session = models.CashSession{
			Reference:     uuid.NewString(),
			BranchID:      req.BranchID,
			OpenedByID:    userID.(uint),
			Status:        models.CashSessionOpen,
			OpeningAmount: req.OpeningAmount,
			OpenedAt:      time.Now(),
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.InfoLogger.Printf("Cash session %s opened for branch %d with %s",
		session.Reference, session.BranchID, utils.FormatMoney(session.OpeningAmount))
	utils.RespondJSON(c, http.StatusCreated, "Cash session opened", session)
}

func (cc *CashSessionController) GetSessionsByBranch(c *gin.Context) {
	var sessions []models.CashSession
	err := cc.DB.Preload("Movements").
		Where("branch_id = ?", c.Param("branch_id")).
		Order("id DESC").Find(&sessions).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of cash sessions", sessions)
}

// AddMovement records a paid-in or paid-out against an open session.
func (cc *CashSessionController) AddMovement(c *gin.Context) {
	var req struct {
		Direction models.CashDirection `json:"direction" binding:"required"`
		Amount    float64              `json:"amount" binding:"required,gt=0"`
		Reason    string               `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Direction != models.CashIn && req.Direction != models.CashOut {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("direction must be IN or OUT"))
		return
	}

	var session models.CashSession
	if err := cc.DB.First(&session, c.Param("session_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if session.Status != models.CashSessionOpen {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("cash session %s is closed", session.Reference))
		return
	}

	movement := models.CashMovement{
		CashSessionID: session.ID,
		Direction:     req.Direction,
		Amount:        req.Amount,
		Reason:        req.Reason,
	}
	if userID, ok := c.Get("userID"); ok {
		id := userID.(uint)
		movement.CreatedByID = &id
	}

	if err := cc.DB.Create(&movement).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cash movement recorded", movement)
}

// CloseSession settles a shift: the expected amount is the opening
// float plus movements plus cash from orders closed into the session,
// compared against the counted closing amount.
func (cc *CashSessionController) CloseSession(c *gin.Context) {
	var req struct {
		ClosingAmount float64 `json:"closing_amount" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var session models.CashSession
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Movements").First(&session, c.Param("session_id")).Error; err != nil {
			return err
		}
		if session.Status != models.CashSessionOpen {
			return fmt.Errorf("cash session %s is already closed", session.Reference)
		}

		var orderTotal float64
		err := tx.Model(&models.Order{}).
			Where("cash_session_id = ? AND status = ?", session.ID, models.OrderStatusClosed).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&orderTotal).Error
		if err != nil {
			return err
		}

		expected := session.ExpectedBalance() + orderTotal
		now := time.Now()
		updates := map[string]interface{}{
			"status":          models.CashSessionClosed,
			"closing_amount":  req.ClosingAmount,
			"expected_amount": expected,
			"closed_at":       now,
		}
		if userID, ok := c.Get("userID"); ok {
			updates["closed_by_id"] = userID.(uint)
		}
		if err := tx.Model(&session).Updates(updates).Error; err != nil {
			return err
		}

		session.Status = models.CashSessionClosed
		session.ClosingAmount = &req.ClosingAmount
		session.ExpectedAmount = &expected
		session.ClosedAt = &now
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	diff := *session.ClosingAmount - *session.ExpectedAmount
	utils.InfoLogger.Printf("Cash session %s closed: expected %s, counted %s, difference %s",
		session.Reference, utils.FormatMoney(*session.ExpectedAmount),
		utils.FormatMoney(*session.ClosingAmount), utils.FormatMoney(diff))
	utils.RespondJSON(c, http.StatusOK, "Cash session closed", gin.H{
		"session":    session,
		"difference": diff,
	})
}
