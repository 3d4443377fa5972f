package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/observability"
	"weather-dashboard/internal/service"
)

// LocationService is the location logic the API needs.
type LocationService interface {
	AddLocation(ctx context.Context, userID int64, loc models.Location) error
	ListLocations(ctx context.Context, userID int64) ([]models.Location, error)
	RemoveLocations(ctx context.Context, userID int64, names []string) (int64, error)
}

// LocationHandler serves the JSON location API.
type LocationHandler struct {
	service LocationService
	metrics *observability.Metrics
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService, metrics *observability.Metrics) *LocationHandler {
	return &LocationHandler{service: svc, metrics: metrics}
}

// AddLocationRequest is the body of POST /api/add-location.
type AddLocationRequest struct {
	Name string `json:"name" binding:"required"`
	Lat  string `json:"lat" binding:"required,decimal_lat"`
	Lon  string `json:"lon" binding:"required,decimal_lon"`
}

func (r AddLocationRequest) location() models.Location {
	return models.Location{
		Name: strings.TrimSpace(r.Name),
		Lat:  strings.TrimSpace(r.Lat),
		Lon:  strings.TrimSpace(r.Lon),
	}
}

// RemoveLocationsRequest is the body of POST /api/remove-locations.
type RemoveLocationsRequest struct {
	LocationNames []string `json:"locationNames" binding:"required"`
}

// MessageResponse carries a human-readable message, or the deleted row count
// for removals.
type MessageResponse struct {
	Message string `json:"message"`
}

// LocationsResponse lists a user's locations.
type LocationsResponse struct {
	Locations []models.Location `json:"locations"`
}

// AddLocation handles POST /api/add-location
//
// @Summary      Add or update a location
// @Description  Saves a location for the session's user. A location with the same name has its coordinates replaced.
// @Tags         Locations
// @Accept       json
// @Produce      json
// @Param        location  body      AddLocationRequest  true  "Location"
// @Success      200       {object}  MessageResponse
// @Failure      400       {object}  MessageResponse
// @Failure      500       {object}  MessageResponse
// @Router       /api/add-location [post]
func (h *LocationHandler) AddLocation(c *gin.Context) {
	var req AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message := "invalid request body"
		if verr := service.ValidateLocation(req.location()); verr != nil {
			message = validationMessage(verr)
		}
		c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
		return
	}

	err := h.service.AddLocation(c.Request.Context(), UserID(c), req.location())
	if err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: validationMessage(err)})
			return
		}
		h.internalError(c, err)
		return
	}

	h.metrics.LocationsSaved.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "Location saved."})
}

// RemoveLocations handles POST /api/remove-locations
//
// @Summary      Remove locations by name
// @Description  Deletes the named locations of the session's user. The message holds the number of deleted rows.
// @Tags         Locations
// @Accept       json
// @Produce      json
// @Param        names  body      RemoveLocationsRequest  true  "Names to delete"
// @Success      200    {object}  MessageResponse
// @Failure      400    {object}  MessageResponse
// @Failure      500    {object}  MessageResponse
// @Router       /api/remove-locations [post]
func (h *LocationHandler) RemoveLocations(c *gin.Context) {
	var req RemoveLocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "locationNames is required"})
		return
	}

	n, err := h.service.RemoveLocations(c.Request.Context(), UserID(c), req.LocationNames)
	if err != nil {
		h.internalError(c, err)
		return
	}

	h.metrics.LocationsRemoved.Add(float64(n))
	c.JSON(http.StatusOK, MessageResponse{Message: strconv.FormatInt(n, 10)})
}

// GetLocations handles GET /api/get-locations
//
// @Summary      List locations
// @Tags         Locations
// @Produce      json
// @Success      200  {object}  LocationsResponse
// @Failure      500  {object}  MessageResponse
// @Router       /api/get-locations [get]
func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context(), UserID(c))
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, LocationsResponse{Locations: locations})
}

func (h *LocationHandler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, MessageResponse{Message: "internal server error"})
}

// validationMessage returns the first field message of a validation error.
func validationMessage(err error) string {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
