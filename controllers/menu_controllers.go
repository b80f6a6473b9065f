package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

type MenuController struct {
	DB         *gorm.DB
	UploadsDir string
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db, UploadsDir: filepath.Join("uploads", "menus")}
}

const maxImageSize = 5 << 20 // 5MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// GetAllMenus -> default hanya menu yang tersedia, bisa difilter kategori
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Model(&models.Menu{}).Preload("Category")
	if c.Query("include_unavailable") != "true" {
		query = query.Where("is_available = ?", true)
	}
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}

	var menus []models.Menu
	if err := query.Order("created_at desc").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menus", menus)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("menu not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		CategoryID  uint    `json:"category_id" binding:"required"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Price < 0 {
		utils.RespondAppError(c, utils.NewValidation("price must not be negative"))
		return
	}

	var category models.Category
	if err := mc.DB.First(&category, body.CategoryID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("category not found"))
		return
	}

	isAvailable := true
	if body.IsAvailable != nil {
		isAvailable = *body.IsAvailable
	}

	menu := models.Menu{
		Name:        body.Name,
		Price:       body.Price,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		IsAvailable: isAvailable,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.DB.Preload("Category").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var body struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		CategoryID  *uint    `json:"category_id"`
		IsAvailable *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("menu not found"))
		return
	}

	if body.Price != nil {
		if *body.Price < 0 {
			utils.RespondAppError(c, utils.NewValidation("price must not be negative"))
			return
		}
		menu.Price = *body.Price
	}
	if body.Name != nil {
		menu.Name = *body.Name
	}
	if body.Description != nil {
		menu.Description = *body.Description
	}
	if body.CategoryID != nil {
		var category models.Category
		if err := mc.DB.First(&category, *body.CategoryID).Error; err != nil {
			utils.RespondAppError(c, utils.NewNotFound("category not found"))
			return
		}
		menu.CategoryID = *body.CategoryID
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.DB.Preload("Category").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// ToggleAvailability -> KASIR menandai menu habis/tersedia
func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var body struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("menu not found"))
		return
	}

	menu.IsAvailable = *body.IsAvailable
	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	message := "Menu is now unavailable"
	if menu.IsAvailable {
		message = "Menu is now available"
	}
	mc.DB.Preload("Category").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusOK, message, menu)
}

// UploadImage menerima multipart image untuk sebuah menu. Nama file dibuat
// dari uuid supaya tidak bisa ditebak atau bertabrakan.
func (mc *MenuController) UploadImage(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("menu not found"))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondAppError(c, utils.NewValidation("image file is required"))
		return
	}
	if file.Size > maxImageSize {
		utils.RespondAppError(c, utils.NewValidation("image must not exceed 5MB"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		utils.RespondAppError(c, utils.NewValidation("invalid file type, only JPEG, PNG, GIF and WebP are allowed"))
		return
	}

	filename := fmt.Sprintf("menu-%s%s", uuid.NewString(), ext)
	dst := filepath.Join(mc.UploadsDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	imagePath := "/" + filepath.ToSlash(dst)
	menu.Image = &imagePath
	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu image uploaded", menu)
}

// DeleteMenu ditolak kalau menu sudah pernah dipesan; tandai tidak tersedia
// sebagai gantinya supaya snapshot harga order lama tetap utuh.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFound("menu not found"))
		return
	}

	var itemCount int64
	if err := mc.DB.Model(&models.OrderItem{}).Where("menu_id = ?", id).Count(&itemCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if itemCount > 0 {
		utils.RespondAppError(c, utils.NewConflict("cannot delete menu that has been ordered, mark it unavailable instead"))
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
