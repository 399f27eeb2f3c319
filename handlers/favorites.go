package handlers

import (
	"net/http"

	"localmart-api/config"
	"localmart-api/middleware"
	"localmart-api/models"

	"github.com/gin-gonic/gin"
)

// ListFavorites returns the caller's favorited businesses
func ListFavorites(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.Preload("Favorites").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(user.Favorites), "favorites": user.Favorites})
}

// AddFavorite favorites a business for the caller
func AddFavorite(c *gin.Context) {
	userID := middleware.GetUserID(c)
	businessID := c.Param("id")

	var business models.Business
	if err := config.DB.First(&business, businessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	user := models.User{ID: userID}
	if err := config.DB.Model(&user).Association("Favorites").Append(&business); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	// favoriting counts as a lead for the shop
	config.DB.Model(&business).Update("leads", business.Leads+1)

	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites", "business_id": business.ID})
}

// RemoveFavorite unfavorites a business
func RemoveFavorite(c *gin.Context) {
	userID := middleware.GetUserID(c)
	businessID := c.Param("id")

	var business models.Business
	if err := config.DB.First(&business, businessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	user := models.User{ID: userID}
	if err := config.DB.Model(&user).Association("Favorites").Delete(&business); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites", "business_id": business.ID})
}
