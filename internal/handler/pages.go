package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ForecastEndpoints are advertised to the page on the forecast panel.
type ForecastEndpoints struct {
	DataURL     string
	ImageURL    string
	ImageLat    string
	Placeholder string
}

// PageHandler renders the dashboard.
type PageHandler struct {
	forecast ForecastEndpoints
}

// NewPageHandler creates a new page handler
func NewPageHandler(forecast ForecastEndpoints) *PageHandler {
	return &PageHandler{forecast: forecast}
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Title":     "Locations",
		"LogoutURL": "/logout",
		"Forecast":  h.forecast,
	})
}
