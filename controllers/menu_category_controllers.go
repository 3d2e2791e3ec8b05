package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/weekly-menu/database"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
	"gorm.io/gorm"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

// GetAllCategories lists categories in display order.
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	categories := []models.MenuCategory{}
	if err := mcc.db(c).Order("display_order ASC").Order("name ASC").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		DisplayOrder *int   `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{
		Name:         body.Name,
		Description:  body.Description,
		DisplayOrder: 1,
	}
	if body.DisplayOrder != nil {
		category.DisplayOrder = *body.DisplayOrder
	}
	if err := mcc.db(c).Create(&category).Error; err != nil {
		mcc.respondWriteError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mcc *MenuCategoryController) GetCategoryByID(c *gin.Context) {
	id, ok := paramID(c, "cat_id")
	if !ok {
		return
	}

	category, err := mcc.find(c, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "cat_id")
	if !ok {
		return
	}

	var body struct {
		Name         string  `json:"name"`
		Description  *string `json:"description"`
		DisplayOrder *int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := mcc.find(c, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if body.Name != "" {
		category.Name = body.Name
	}
	if body.Description != nil {
		category.Description = *body.Description
	}
	if body.DisplayOrder != nil {
		category.DisplayOrder = *body.DisplayOrder
	}

	if err := mcc.db(c).Save(category).Error; err != nil {
		mcc.respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "cat_id")
	if !ok {
		return
	}

	res := mcc.db(c).Delete(&models.MenuCategory{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, services.ErrCategoryNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}

func (mcc *MenuCategoryController) db(c *gin.Context) *gorm.DB {
	return mcc.DB.WithContext(c.Request.Context())
}

func (mcc *MenuCategoryController) find(c *gin.Context, id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := mcc.db(c).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (mcc *MenuCategoryController) respondWriteError(c *gin.Context, err error) {
	if database.IsDuplicate(err) {
		utils.RespondError(c, http.StatusConflict, errors.New("category name already exists"))
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}
