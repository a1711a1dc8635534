package controllers

import (
	"fmt"
	"net/http"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func (mc *MenuController) CreateCategory(c *gin.Context) {
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

	category := models.MenuCategory{
		BranchID: req.BranchID,
		Name:     req.Name,
		Station:  req.Station,
	}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created successfully", category)
}

func (mc *MenuController) GetCategoriesByBranch(c *gin.Context) {
	var categories []models.MenuCategory
	err := mc.DB.Where("branch_id = ?", c.Param("branch_id")).
		Order("name").Find(&categories).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req struct {
		CategoryID  uint    `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.MenuCategory
	if err := mc.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("category %d not found", req.CategoryID))
		return
	}

	menu := models.Menu{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		IsAvailable: true,
		Description: req.Description,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created successfully", menu)
}

func (mc *MenuController) GetMenusByBranch(c *gin.Context) {
	query := mc.DB.Preload("Category").
		Joins("JOIN menu_categories ON menu_categories.id = menus.category_id").
		Where("menu_categories.branch_id = ?", c.Param("branch_id"))
	if c.Query("available") == "true" {
		query = query.Where("menus.is_available = ?", true)
	}

	var menus []models.Menu
	if err := query.Order("menus.name").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		IsAvailable *bool    `json:"is_available"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("price must be positive"))
			return
		}
		updates["price"] = *req.Price
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("nothing to update"))
		return
	}

	if err := mc.DB.Model(&menu).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var used int64
	mc.DB.Model(&models.OrderItem{}).Where("menu_id = ?", menu.ID).Count(&used)
	if used > 0 {
		// Historical orders reference the row; hide it instead.
		if err := mc.DB.Model(&menu).Update("is_available", false).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Menu has order history, marked unavailable", menu)
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}
