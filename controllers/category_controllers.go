package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GetAllCategories -> default hanya kategori aktif, urut display order
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	query := cc.DB.Model(&models.Category{})
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("display_order asc").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("category not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		Icon         string `json:"icon"`
		DisplayOrder *int   `json:"display_order"`
		IsActive     *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.Category
	if err := cc.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
		utils.RespondAppError(c, utils.NewConflict("category name already exists"))
		return
	}

	// Tanpa display order eksplisit, kategori baru masuk paling akhir
	displayOrder := 0
	if body.DisplayOrder != nil {
		displayOrder = *body.DisplayOrder
	} else {
		var last models.Category
		if err := cc.DB.Order("display_order desc").First(&last).Error; err == nil {
			displayOrder = last.DisplayOrder + 1
		}
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	category := models.Category{
		Name:         body.Name,
		Description:  body.Description,
		Icon:         body.Icon,
		DisplayOrder: displayOrder,
		IsActive:     isActive,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))

	var body struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Icon         *string `json:"icon"`
		DisplayOrder *int    `json:"display_order"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("category not found"))
		return
	}

	if body.Name != nil && *body.Name != category.Name {
		var existing models.Category
		if err := cc.DB.Where("name = ?", *body.Name).First(&existing).Error; err == nil {
			utils.RespondAppError(c, utils.NewConflict("category name already exists"))
			return
		}
		category.Name = *body.Name
	}
	if body.Description != nil {
		category.Description = *body.Description
	}
	if body.Icon != nil {
		category.Icon = *body.Icon
	}
	if body.DisplayOrder != nil {
		category.DisplayOrder = *body.DisplayOrder
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory ditolak selama masih ada menu yang mereferensikan kategori.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("category not found"))
		return
	}

	var menuCount int64
	if err := cc.DB.Model(&models.Menu{}).Where("category_id = ?", id).Count(&menuCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if menuCount > 0 {
		utils.RespondAppError(c, utils.NewConflict("cannot delete category with existing menus"))
		return
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
