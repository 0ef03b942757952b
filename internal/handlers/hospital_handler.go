package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FindHospitals returns an AI-generated list of nearby facilities for the
// given coordinates. Invalid coordinates are rejected before the oracle is
// ever called.
func (h *Handler) FindHospitals(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be valid coordinates"})
		return
	}

	hospitals, err := h.AI.FindHospitals(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospitals)
}
