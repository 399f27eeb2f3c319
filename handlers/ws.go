package handlers

import (
	"net/http"
	"strconv"

	"localmart-api/config"
	"localmart-api/middleware"
	"localmart-api/models"
	"localmart-api/realtime"

	"github.com/gin-gonic/gin"
)

// WatchOrder upgrades to a WebSocket that streams status updates for one
// order. Browsers cannot set an Authorization header on the upgrade
// request, so the token rides in the ?token= query parameter. Only the
// order's customer, its assigned rider, the shop owner, and staff may
// subscribe.
func WatchOrder(c *gin.Context) {
	claims, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !canWatch(claims, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant in this order"})
		return
	}

	if err := realtime.ServeOrderSocket(c.Writer, c.Request, order.ID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WebSocket upgrade failed"})
	}
}

func canWatch(claims *middleware.Claims, order *models.Order) bool {
	switch claims.Role {
	case models.RoleAdmin, models.RoleModerator:
		return true
	case models.RoleCustomer:
		return order.CustomerID == claims.UserID
	case models.RoleDelivery:
		return order.DeliveryBoyID != nil && *order.DeliveryBoyID == claims.UserID
	case models.RoleBusiness:
		var business models.Business
		if err := config.DB.Where("owner_id = ?", claims.UserID).First(&business).Error; err != nil {
			return false
		}
		return order.BusinessID == business.ID
	}
	return false
}
