package handlers

import (
	"net/http"
	"strings"
	"time"

	"localmart-api/assist"
	"localmart-api/config"
	"localmart-api/middleware"
	"localmart-api/models"
	"localmart-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PlaceOrderRequest struct {
	ProductID       uint   `json:"product_id" binding:"required"`
	DeliveryAddress string `json:"delivery_address"` // falls back to profile address
}

// PlaceOrder creates a new order for a single product (customer only).
// Customer, shop and product details are snapshotted onto the order so
// later profile or listing edits don't rewrite delivery paperwork.
func PlaceOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.User
	if err := config.DB.First(&customer, customerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var product models.Product
	if err := config.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if product.Status != models.ProductApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not available for ordering"})
		return
	}

	var business models.Business
	if err := config.DB.First(&business, product.BusinessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	address := req.DeliveryAddress
	if address == "" {
		address = customer.FullAddress()
	}
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Add a delivery address to your profile or the order"})
		return
	}

	order := models.Order{
		DisplayID:       "LM-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		DeliveryAddress: address,
		BusinessID:      business.ID,
		ShopName:        business.Name,
		ShopAddress:     business.Address,
		ShopPhone:       business.Phone,
		ProductID:       product.ID,
		ProductTitle:    product.Title,
		ProductPrice:    product.Price,
		Status:          models.StatusPending,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: customer.ID,
		Note:      "Order placed by customer",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order with lifecycle progress and history
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.Preload("StatusHistory").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	stage := statemachine.StageIndex(order.Status)
	resp := gin.H{
		"order":           order,
		"stage_index":     stage,
		"minutes_elapsed": int(time.Since(order.CreatedAt).Minutes()),
	}
	// cancelled orders render no progress bar
	if stage >= 0 {
		resp["progress"] = statemachine.Progress(order.Status)
	}
	c.JSON(http.StatusOK, resp)
}

type SupportChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// SupportChat proxies a customer question to the assist provider
func SupportChat(c *gin.Context) {
	var req SupportChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := assist.NewClientFromEnv()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	reply, err := client.SupportChat(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply.Reply, "suggested_action": reply.SuggestedAction})
}
