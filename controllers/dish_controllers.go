package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DishController manages the dish library that weekly menus are built from.
type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

type dishBody struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	BasePrice   *decimal.Decimal     `json:"base_price"`
	ImageRef    *string              `json:"image_ref"`
	SizeOptions *[]models.SizeOption `json:"size_options"`
}

var errDishNameRequired = errors.New("name is required")

func (b dishBody) apply(d *models.Dish) error {
	if b.Name != nil {
		d.Name = *b.Name
	}
	if b.Description != nil {
		d.Description = *b.Description
	}
	if b.Category != nil {
		d.Category = *b.Category
	}
	if b.BasePrice != nil {
		if b.BasePrice.IsNegative() {
			return errors.New("base_price must not be negative")
		}
		d.BasePrice = *b.BasePrice
	}
	if b.ImageRef != nil {
		d.ImageRef = *b.ImageRef
	}
	if b.SizeOptions != nil {
		if err := models.ValidateSizeOptions(*b.SizeOptions); err != nil {
			return err
		}
		d.SizeOptions = datatypes.JSONSlice[models.SizeOption](*b.SizeOptions)
	}
	if d.Name == "" {
		return errDishNameRequired
	}
	return nil
}

// GetAllDishes lists the library newest first, optionally for one ?category=.
func (dc *DishController) GetAllDishes(c *gin.Context) {
	q := dc.db(c).Order("created_at DESC").Order("id DESC")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	dishes := []models.Dish{}
	if err := q.Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

func (dc *DishController) GetDishByID(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}
	dish, err := dc.find(c, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

func (dc *DishController) CreateDish(c *gin.Context) {
	var body dishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := body.apply(&dish); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := dc.db(c).Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

func (dc *DishController) UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var body dishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dish, err := dc.find(c, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := body.apply(dish); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := dc.db(c).Save(dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

// DeleteDish removes the library entry. Offerings already placed on menus are kept.
func (dc *DishController) DeleteDish(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	res := dc.db(c).Delete(&models.Dish{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, services.ErrDishNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"dish_id": id})
}

func (dc *DishController) db(c *gin.Context) *gorm.DB {
	return dc.DB.WithContext(c.Request.Context())
}

func (dc *DishController) find(c *gin.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := dc.db(c).First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrDishNotFound
		}
		return nil, err
	}
	return &dish, nil
}
