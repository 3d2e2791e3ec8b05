package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
)

// respondServiceError maps domain and store errors onto status codes. Validation failures
// carry their kind and details so the storefront can point at the offending input.
func respondServiceError(c *gin.Context, err error) {
	if vf, ok := validationFailure(err); ok {
		utils.RespondErrorWithData(c, http.StatusUnprocessableEntity, err, validationDetails(vf))
		return
	}

	switch {
	case errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrOfferingNotFound),
		errors.Is(err, services.ErrDishNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, models.ErrLineNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrDuplicateKey),
		errors.Is(err, services.ErrTransitionForbidden),
		errors.Is(err, services.ErrStatusChanged):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, models.ErrUnknownSize),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidDay):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func validationFailure(err error) (models.ValidationFailure, bool) {
	var vf models.ValidationFailure
	if errors.As(err, &vf) {
		return vf, true
	}
	return nil, false
}

func validationDetails(vf models.ValidationFailure) gin.H {
	details := gin.H{"kind": vf.Kind()}
	switch e := vf.(type) {
	case *models.IncompleteFieldsError:
		details["fields"] = e.Fields
	case *models.InvalidFieldError:
		details["field"] = e.Field
		details["reason"] = e.Reason
	case *models.WrongDayError:
		details["item"] = e.Item
		details["item_day"] = e.ItemDay
		details["browsing_day"] = e.BrowsingDay
	case *models.UnavailableItemError:
		details["items"] = e.Items
		details["day"] = e.Day
		details["week_id"] = e.WeekID
		details["delivery_date"] = e.DeliveryDate
	case *models.InsufficientLeadTimeError:
		details["remaining_hours"] = e.RemainingHours
		details["required_hours"] = e.Required.Hours()
	}
	return details
}

var errInvalidID = errors.New("invalid id")

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return uint(id), true
}
