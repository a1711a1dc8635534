package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(db *gorm.DB) *BranchController {
	return &BranchController{DB: db}
}

func (bc *BranchController) CreateBranch(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Timezone string `json:"timezone"`
		Currency string `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown timezone %q", req.Timezone))
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	branch := models.Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Timezone: req.Timezone,
		Currency: req.Currency,
		IsActive: true,
	}
	if err := bc.DB.Create(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New branch created: %s (tz=%s)", branch.Name, branch.Timezone)
	utils.RespondJSON(c, http.StatusCreated, "Branch created successfully", branch)
}

func (bc *BranchController) GetAllBranches(c *gin.Context) {
	var branches []models.Branch
	if err := bc.DB.Find(&branches).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of branches", branches)
}

func (bc *BranchController) GetBranchByID(c *gin.Context) {
	var branch models.Branch
	if err := bc.DB.First(&branch, c.Param("branch_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Branch detail", branch)
}

func (bc *BranchController) UpdateBranch(c *gin.Context) {
	var branch models.Branch
	if err := bc.DB.First(&branch, c.Param("branch_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Address  *string `json:"address"`
		Phone    *string `json:"phone"`
		Timezone *string `json:"timezone"`
		Currency *string `json:"currency"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown timezone %q", *req.Timezone))
			return
		}
		branch.Timezone = *req.Timezone
	}
	if req.Currency != nil {
		branch.Currency = *req.Currency
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := bc.DB.Save(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Branch updated", branch)
}

func (bc *BranchController) DeleteBranch(c *gin.Context) {
	var branch models.Branch
	if err := bc.DB.First(&branch, c.Param("branch_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := bc.DB.Delete(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.InfoLogger.Printf("Branch %d deleted", branch.ID)
	utils.RespondJSON(c, http.StatusOK, "Branch deleted", gin.H{"id": branch.ID})
}
