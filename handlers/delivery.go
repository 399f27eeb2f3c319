package handlers

import (
	"net/http"

	"localmart-api/assist"
	"localmart-api/config"
	"localmart-api/imaging"
	"localmart-api/middleware"
	"localmart-api/models"
	"localmart-api/realtime"
	"localmart-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetAvailableOrders shows pending orders that no rider has claimed yet
func GetAvailableOrders(c *gin.Context) {
	var orders []models.Order
	config.DB.Where("status = ? AND delivery_boy_id IS NULL", models.StatusPending).
		Order("created_at asc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(orders),
		"orders": orders,
	})
}

// GetMyDeliveries returns all orders assigned to the logged-in rider
func GetMyDeliveries(c *gin.Context) {
	riderID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Where("delivery_boy_id = ?", riderID).
		Order("updated_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ClaimOrder assigns a pending order to the rider: pending → assigned.
// Riders without a saved phone number are turned away before anything is
// written. The assignment itself is a conditional UPDATE on the
// unassigned precondition, so when two riders race only the first
// writer's claim lands; the loser sees zero rows affected and a conflict.
func ClaimOrder(c *gin.Context) {
	riderID := middleware.GetUserID(c)

	var rider models.User
	if err := config.DB.First(&rider, riderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if rider.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Add a contact phone to your profile before accepting orders"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusAssigned, "delivery"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	result := config.DB.Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_boy_id IS NULL", order.ID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":             models.StatusAssigned,
			"delivery_boy_id":    rider.ID,
			"delivery_boy_name":  rider.Name,
			"delivery_boy_phone": rider.Phone,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim order"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been claimed by another rider"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: models.StatusPending,
		ToStatus:   models.StatusAssigned,
		ChangedBy:  rider.ID,
		Note:       "Order claimed by " + rider.Name,
	}
	config.DB.Create(&history)

	realtime.BroadcastOrderEvent(order.ID, "status_changed", gin.H{
		"status":            models.StatusAssigned,
		"delivery_boy_name": rider.Name,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order claimed successfully",
		"order_id": order.ID,
		"status":   models.StatusAssigned,
	})
}

type ProofPhotoRequest struct {
	Photo string `json:"photo" binding:"required"` // data-URL encoded capture
}

// PickupOrder transitions assigned → picked_up with a mandatory pickup
// proof photo; photo and status are written together.
func PickupOrder(c *gin.Context) {
	transitionWithProof(c, models.StatusPickedUp, "pickup_photo", "Rider picked up the order")
}

// StartDelivery transitions picked_up → out_for_delivery, status only
func StartDelivery(c *gin.Context) {
	riderID := middleware.GetUserID(c)

	order, ok := loadAssignedOrder(c, riderID)
	if !ok {
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusOutForDelivery, "delivery"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(order).Update("status", models.StatusOutForDelivery)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusOutForDelivery,
		ChangedBy:  riderID,
		Note:       "Rider is out for delivery",
	}
	config.DB.Create(&history)

	realtime.BroadcastOrderEvent(order.ID, "status_changed", gin.H{"status": models.StatusOutForDelivery})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order is out for delivery",
		"order_id": order.ID,
		"status":   models.StatusOutForDelivery,
	})
}

// DeliverOrder transitions out_for_delivery → delivered with a mandatory
// delivery proof photo.
func DeliverOrder(c *gin.Context) {
	transitionWithProof(c, models.StatusDelivered, "delivery_photo", "Order delivered to customer")
}

// transitionWithProof handles the two photo-bearing rider transitions.
// The proof is recompressed to the tighter proof target and persisted in
// the same UPDATE as the status change.
func transitionWithProof(c *gin.Context, to models.OrderStatus, photoColumn, note string) {
	riderID := middleware.GetUserID(c)

	order, ok := loadAssignedOrder(c, riderID)
	if !ok {
		return
	}

	var req ProofPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A proof photo is required for this step"})
		return
	}

	if err := statemachine.CanTransition(order.Status, to, "delivery"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	compressed, err := imaging.CompressDataURL(req.Photo, imaging.ProofMaxSizeKB)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not process proof photo"})
		return
	}

	prevStatus := order.Status
	config.DB.Model(order).Updates(map[string]interface{}{
		"status":    to,
		photoColumn: compressed,
	})

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   to,
		ChangedBy:  riderID,
		Note:       note,
	}
	config.DB.Create(&history)

	realtime.BroadcastOrderEvent(order.ID, "status_changed", gin.H{"status": to})

	c.JSON(http.StatusOK, gin.H{
		"message":  note,
		"order_id": order.ID,
		"status":   to,
	})
}

// loadAssignedOrder fetches the order and verifies the caller is its rider
func loadAssignedOrder(c *gin.Context, riderID uint) (*models.Order, bool) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	if order.DeliveryBoyID == nil || *order.DeliveryBoyID != riderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned rider for this order"})
		return nil, false
	}
	return &order, true
}

// GetOrderVoiceBrief speaks the order summary for a hands-free rider
func GetOrderVoiceBrief(c *gin.Context) {
	riderID := middleware.GetUserID(c)

	order, ok := loadAssignedOrder(c, riderID)
	if !ok {
		return
	}

	client, err := assist.NewClientFromEnv()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	media, err := client.OrderVoiceBrief(c.Request.Context(),
		order.ProductTitle, order.ShopName, order.CustomerName, order.DeliveryAddress)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}
