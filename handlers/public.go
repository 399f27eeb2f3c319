package handlers

import (
	"net/http"
	"strconv"

	"localmart-api/config"
	"localmart-api/geo"
	"localmart-api/models"
	"localmart-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListBusinesses returns businesses, optionally filtered by category,
// search text, verification, and a lat/lng radius. When coordinates are
// supplied the radius filter is active (default 1 km) and businesses
// without saved coordinates drop out; without coordinates the listing
// is unfiltered.
func ListBusinesses(c *gin.Context) {
	query := config.DB.Model(&models.Business{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if verified := c.Query("verified"); verified == "true" {
		query = query.Where("verified = ?", true)
	}

	var businesses []models.Business
	query.Find(&businesses)

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	radiusApplied := false
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be numbers"})
			return
		}
		radius := geo.DefaultRadiusKM
		if r := c.Query("radius"); r != "" {
			if parsed, err := strconv.ParseFloat(r, 64); err == nil && parsed > 0 {
				radius = parsed
			}
		}

		filtered := businesses[:0]
		for _, b := range businesses {
			if !b.HasLocation() {
				continue
			}
			if geo.WithinRadius(lat, lng, *b.Latitude, *b.Longitude, radius) {
				filtered = append(filtered, b)
			}
		}
		businesses = filtered
		radiusApplied = true
	}

	// premium shops float to the top of the listing
	premium := make([]models.Business, 0)
	regular := make([]models.Business, 0, len(businesses))
	for _, b := range businesses {
		if b.IsPremium() {
			premium = append(premium, b)
		} else {
			regular = append(regular, b)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":          len(businesses),
		"radius_applied": radiusApplied,
		"businesses":     append(premium, regular...),
	})
}

// GetBusiness returns a single business with approved products and
// bumps its view counter.
func GetBusiness(c *gin.Context) {
	var business models.Business
	if err := config.DB.Preload("Products", "status = ?", models.ProductApproved).
		First(&business, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	config.DB.Model(&business).Update("views", business.Views+1)

	c.JSON(http.StatusOK, gin.H{"business": business, "is_premium": business.IsPremium()})
}

// ListApprovedProducts returns approved products for a business (public)
func ListApprovedProducts(c *gin.Context) {
	var products []models.Product
	config.DB.Where("business_id = ? AND status = ?", c.Param("id"), models.ProductApproved).
		Order("created_at desc").
		Find(&products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// ListAnnouncements returns active announcements, platform-wide plus any
// targeted at the caller's pincode.
func ListAnnouncements(c *gin.Context) {
	query := config.DB.Where("active = ?", true)
	if pincode := c.Query("pincode"); pincode != "" {
		query = query.Where("pincode = '' OR pincode = ?", pincode)
	} else {
		query = query.Where("pincode = ''")
	}

	var announcements []models.Announcement
	query.Order("created_at desc").Find(&announcements)
	c.JSON(http.StatusOK, gin.H{"count": len(announcements), "announcements": announcements})
}

// GetStateMachineInfo documents the order lifecycle for API consumers
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	doc := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		doc = append(doc, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"stages":      statemachine.Stages,
		"transitions": doc,
	})
}
