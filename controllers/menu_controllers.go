package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/database"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MenuController serves the weekly menu to customers and lets staff place dishes on it.
type MenuController struct {
	DB       *gorm.DB
	Store    *database.MenuStore
	Notifier services.Broadcaster
	Location *time.Location
	Now      func() time.Time
}

func NewMenuController(db *gorm.DB, store *database.MenuStore, notifier services.Broadcaster, loc *time.Location) *MenuController {
	if loc == nil {
		loc = time.Local
	}
	return &MenuController{DB: db, Store: store, Notifier: notifier, Location: loc, Now: time.Now}
}

func (mc *MenuController) today() time.Time {
	now := time.Now
	if mc.Now != nil {
		now = mc.Now
	}
	return now().In(mc.Location)
}

// weekFor resolves the week browsed offset weeks away from the current one.
func (mc *MenuController) weekFor(offset int) (time.Time, string) {
	monday := utils.MondayOf(mc.today()).AddDate(0, 0, offset*7)
	return monday, utils.WeekIdentifier(monday)
}

func (mc *MenuController) broadcast(data interface{}) {
	if mc.Notifier != nil {
		mc.Notifier.Broadcast(services.EventMenuUpdated, data)
	}
}

var (
	errInvalidOffset = errors.New("offset must be an integer")
	errInvalidDay    = errors.New("day must be one of: " + strings.Join(utils.DayLabels[:], ", "))
	errInvalidWeek   = errors.New("week_id must look like 2025-46")
)

func parseOffset(c *gin.Context) (int, bool, error) {
	raw := c.Query("offset")
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errInvalidOffset
	}
	return n, true, nil
}

// GetWeek describes the browsed week: its identifier and the date of every day label.
func (mc *MenuController) GetWeek(c *gin.Context) {
	offset, _, err := parseOffset(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	monday, weekID := mc.weekFor(offset)
	days := make([]gin.H, 0, 7)
	for i, d := range utils.WeekDates(monday) {
		days = append(days, gin.H{"day": utils.DayLabels[i], "date": d.Format(utils.DateLayout)})
	}
	utils.RespondJSON(c, http.StatusOK, "Week", gin.H{
		"week_id": weekID,
		"offset":  offset,
		"days":    days,
	})
}

// GetMenu lists offerings. Filters: ?week_id= or ?offset=, ?day=, ?available=true.
// ?group=day returns the week partitioned under the seven day labels.
func (mc *MenuController) GetMenu(c *gin.Context) {
	offset, hasOffset, err := parseOffset(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	filter := services.MenuFilter{
		WeekID:        c.Query("week_id"),
		Day:           c.Query("day"),
		AvailableOnly: c.Query("available") == "true",
	}
	if filter.WeekID == "" && hasOffset {
		_, filter.WeekID = mc.weekFor(offset)
	}
	if filter.Day != "" && !utils.IsDayLabel(filter.Day) {
		utils.RespondError(c, http.StatusBadRequest, errInvalidDay)
		return
	}
	if !validWeekID(filter.WeekID) {
		utils.RespondError(c, http.StatusBadRequest, errInvalidWeek)
		return
	}

	offerings, err := mc.Store.ListOfferings(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if c.Query("group") == "day" {
		weekID := filter.WeekID
		if weekID == "" {
			_, weekID = mc.weekFor(0)
		}
		utils.RespondJSON(c, http.StatusOK, "Weekly menu", gin.H{
			"week_id": weekID,
			"days":    services.PartitionByDay(offerings, weekID),
		})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu offerings", offerings)
}

func (mc *MenuController) GetOfferingByID(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	offering, err := mc.Store.GetOffering(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu offering detail", offering)
}

type offeringBody struct {
	DishID      *uint                `json:"dish_id"`
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	ImageRef    *string              `json:"image_ref"`
	Day         *string              `json:"day"`
	WeekID      *string              `json:"week_id"`
	IsFeatured  *bool                `json:"is_featured"`
	IsAvailable *bool                `json:"is_available"`
	BasePrice   *decimal.Decimal     `json:"base_price"`
	SizeOptions *[]models.SizeOption `json:"size_options"`
}

func (b offeringBody) apply(o *models.MenuOffering) error {
	if b.Name != nil {
		o.Name = *b.Name
	}
	if b.Description != nil {
		o.Description = *b.Description
	}
	if b.Category != nil {
		o.Category = *b.Category
	}
	if b.ImageRef != nil {
		o.ImageRef = *b.ImageRef
	}
	if b.Day != nil {
		if !utils.IsDayLabel(*b.Day) {
			return errInvalidDay
		}
		o.Day = *b.Day
	}
	if b.WeekID != nil {
		if !validWeekID(*b.WeekID) {
			return errInvalidWeek
		}
		o.WeekID = *b.WeekID
	}
	if b.IsFeatured != nil {
		o.IsFeatured = *b.IsFeatured
	}
	if b.IsAvailable != nil {
		o.IsAvailable = *b.IsAvailable
	}
	if b.BasePrice != nil {
		if b.BasePrice.IsNegative() {
			return errors.New("base_price must not be negative")
		}
		o.BasePrice = *b.BasePrice
	}
	if b.SizeOptions != nil {
		if err := models.ValidateSizeOptions(*b.SizeOptions); err != nil {
			return err
		}
		o.SizeOptions = datatypes.JSONSlice[models.SizeOption](*b.SizeOptions)
	}
	if o.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// validWeekID accepts computed week tokens and the empty id of legacy rows.
func validWeekID(id string) bool {
	return id == "" || utils.IsWeekIdentifier(id)
}

// CreateOffering places a dish on (day, week_id). With dish_id the dish library entry is
// copied and the remaining fields override it. week_id defaults to the current week.
func (mc *MenuController) CreateOffering(c *gin.Context) {
	var body offeringBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Day == nil || !utils.IsDayLabel(*body.Day) {
		utils.RespondError(c, http.StatusBadRequest, errInvalidDay)
		return
	}

	weekID := ""
	if body.WeekID != nil {
		if !validWeekID(*body.WeekID) {
			utils.RespondError(c, http.StatusBadRequest, errInvalidWeek)
			return
		}
		weekID = *body.WeekID
	} else {
		_, weekID = mc.weekFor(0)
	}

	offering := models.MenuOffering{Day: *body.Day, WeekID: weekID, IsAvailable: true}
	if body.DishID != nil {
		var dish models.Dish
		if err := mc.DB.WithContext(c.Request.Context()).First(&dish, *body.DishID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = services.ErrDishNotFound
			}
			respondServiceError(c, err)
			return
		}
		offering = dish.ToOffering(*body.Day, weekID)
	}

	body.WeekID = nil
	if err := body.apply(&offering); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.Store.CreateOffering(c.Request.Context(), &offering); err != nil {
		respondServiceError(c, err)
		return
	}
	mc.broadcast(offering)
	utils.RespondJSON(c, http.StatusCreated, "Menu offering created", offering)
}

// UpdateOffering applies the fields present in the body.
func (mc *MenuController) UpdateOffering(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}

	var body offeringBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	offering, err := mc.Store.GetOffering(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	body.DishID = nil
	if err := body.apply(offering); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.Store.SaveOffering(c.Request.Context(), offering); err != nil {
		respondServiceError(c, err)
		return
	}
	mc.broadcast(offering)
	utils.RespondJSON(c, http.StatusOK, "Menu offering updated", offering)
}

func (mc *MenuController) SetAvailability(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}

	var body struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	offering, err := mc.Store.SetAvailability(c.Request.Context(), id, *body.IsAvailable)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	mc.broadcast(offering)
	utils.RespondJSON(c, http.StatusOK, "Menu availability updated", offering)
}

func (mc *MenuController) DeleteOffering(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	if err := mc.Store.DeleteOffering(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	mc.broadcast(gin.H{"id": id, "deleted": true})
	utils.RespondJSON(c, http.StatusOK, "Menu offering deleted", gin.H{"menu_id": id})
}

// SeedMenu inserts the sample Monday offerings for the current week.
func (mc *MenuController) SeedMenu(c *gin.Context) {
	_, weekID := mc.weekFor(0)
	items, err := database.SeedMenu(mc.DB.WithContext(c.Request.Context()), weekID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	mc.broadcast(items)
	utils.RespondJSON(c, http.StatusCreated, "Sample menu seeded successfully", items)
}
