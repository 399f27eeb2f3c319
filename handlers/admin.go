package handlers

import (
	"net/http"
	"time"

	"localmart-api/config"
	"localmart-api/middleware"
	"localmart-api/models"
	"localmart-api/realtime"
	"localmart-api/statemachine"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns all orders with full detail — admin only
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("StatusHistory")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if businessID := c.Query("business_id"); businessID != "" {
		query = query.Where("business_id = ?", businessID)
	}

	query.Order("created_at desc").Find(&orders)

	// Admin dashboard: aggregate by status
	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.ProductPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AdminCancelOrder cancels an order through the state machine (admin actor)
func AdminCancelOrder(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, "admin"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel order",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", models.StatusCancelled)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusCancelled,
		ChangedBy:  adminID,
		Note:       "Order cancelled by admin",
	}
	config.DB.Create(&history)

	realtime.BroadcastOrderEvent(order.ID, "status_changed", gin.H{"status": models.StatusCancelled})

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order_id": order.ID})
}

// AdminForceOrderStatus lets admin override any order state (emergency use)
func AdminForceOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Even an override stays inside the known status set
	validStatuses := map[models.OrderStatus]bool{
		models.StatusPending:        true,
		models.StatusAssigned:       true,
		models.StatusPickedUp:       true,
		models.StatusOutForDelivery: true,
		models.StatusDelivered:      true,
		models.StatusCancelled:      true,
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: pending, assigned, picked_up, out_for_delivery, delivered, or cancelled"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  middleware.GetUserID(c),
		Note:       "[ADMIN OVERRIDE] " + req.Reason,
	}
	config.DB.Create(&history)

	realtime.BroadcastOrderEvent(order.ID, "status_changed", gin.H{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// AdminGetAllUsers returns all users — admin only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllBusinesses returns all businesses — admin only
func AdminGetAllBusinesses(c *gin.Context) {
	var businesses []models.Business
	config.DB.Preload("Owner").Preload("Products").Find(&businesses)
	c.JSON(http.StatusOK, gin.H{"count": len(businesses), "businesses": businesses})
}

// AdminVerifyBusiness flips the verification flag on a listing
func AdminVerifyBusiness(c *gin.Context) {
	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var business models.Business
	if err := config.DB.First(&business, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}
	config.DB.Model(&business).Update("verified", *req.Verified)
	c.JSON(http.StatusOK, gin.H{"message": "Business verification updated", "verified": *req.Verified})
}

// AdminSetPremium grants or revokes premium directly (support tooling;
// the normal path is the paid subscription flow)
func AdminSetPremium(c *gin.Context) {
	var req struct {
		Active bool `json:"active"`
		Days   int  `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var business models.Business
	if err := config.DB.First(&business, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	if !req.Active {
		config.DB.Model(&business).Updates(map[string]interface{}{
			"is_paid":        false,
			"premium_status": "expired",
		})
		c.JSON(http.StatusOK, gin.H{"message": "Premium revoked"})
		return
	}

	days := req.Days
	if days <= 0 {
		days = 30
	}
	until := time.Now().AddDate(0, 0, days)
	config.DB.Model(&business).Updates(map[string]interface{}{
		"is_paid":        true,
		"premium_status": "active",
		"premium_until":  until,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Premium granted", "premium_until": until})
}

// ── Product Moderation (admin or moderator) ─────────────────────────────────

// GetModerationQueue lists products awaiting review
func GetModerationQueue(c *gin.Context) {
	var products []models.Product
	config.DB.Preload("Business").
		Where("status = ?", models.ProductPending).
		Order("created_at asc").
		Find(&products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

type ModerateProductRequest struct {
	Status models.ProductStatus `json:"status" binding:"required"`
	Note   string               `json:"note"`
}

// ModerateProduct approves or rejects a pending product
func ModerateProduct(c *gin.Context) {
	var req ModerateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.ProductApproved && req.Status != models.ProductRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'approved' or 'rejected'"})
		return
	}

	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	config.DB.Model(&product).Update("status", req.Status)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Product " + string(req.Status),
		"product_id":   product.ID,
		"status":       req.Status,
		"moderated_by": gin.H{"id": middleware.GetUserID(c), "role": middleware.GetRole(c)},
	})
}

// ── Announcements ───────────────────────────────────────────────────────────

type AnnouncementRequest struct {
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Pincode   string `json:"pincode"`
	VideoLink string `json:"video_link"`
	Active    *bool  `json:"active"`
}

// AdminCreateAnnouncement publishes a platform-wide or pincode-targeted notice
func AdminCreateAnnouncement(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	announcement := models.Announcement{
		Title:     req.Title,
		Message:   req.Message,
		Pincode:   req.Pincode,
		VideoLink: req.VideoLink,
		Active:    active,
		CreatedBy: adminID,
	}
	if err := config.DB.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Announcement created", "announcement": announcement})
}

// AdminUpdateAnnouncement edits or toggles an announcement
func AdminUpdateAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	if err := config.DB.First(&announcement, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{"title": true, "message": true, "pincode": true, "video_link": true, "active": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&announcement).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Announcement updated", "announcement": announcement})
}

// AdminDeleteAnnouncement removes an announcement
func AdminDeleteAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	if err := config.DB.First(&announcement, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}
	config.DB.Delete(&announcement)
	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted"})
}
