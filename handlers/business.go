package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"localmart-api/assist"
	"localmart-api/config"
	"localmart-api/imaging"
	"localmart-api/middleware"
	"localmart-api/models"
	"localmart-api/payments"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ── Business Management ─────────────────────────────────────────────────────

type CreateBusinessRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category"`
	Address      string   `json:"address" binding:"required"`
	Phone        string   `json:"phone"`
	WhatsappLink string   `json:"whatsapp_link"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Description  string   `json:"description"`
}

// CreateBusiness lets a business-role user create their shop listing
func CreateBusiness(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Business
	if result := config.DB.Where("owner_id = ?", ownerID).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a business listing"})
		return
	}

	business := models.Business{
		OwnerID:      ownerID,
		Name:         req.Name,
		Category:     req.Category,
		Address:      req.Address,
		Phone:        req.Phone,
		WhatsappLink: req.WhatsappLink,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Description:  req.Description,
	}
	if err := config.DB.Create(&business).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Business created", "business": business})
}

// GetMyBusiness fetches the business owned by the logged-in user
func GetMyBusiness(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var business models.Business
	if err := config.DB.Preload("Products").Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No business found for your account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business, "is_premium": business.IsPremium()})
}

// UpdateBusiness updates listing content. Verification and premium
// fields are admin-owned and cannot be written here.
func UpdateBusiness(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var business models.Business
	if err := config.DB.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed := map[string]bool{
		"name": true, "category": true, "address": true, "phone": true,
		"whatsapp_link": true, "latitude": true, "longitude": true,
		"description": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}

	if photo, ok := req["photo_data"].(string); ok && photo != "" {
		compressed, err := imaging.CompressDataURL(photo, imaging.DefaultMaxSizeKB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not process shop photo"})
			return
		}
		update["photo_data"] = compressed
	}

	config.DB.Model(&business).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Business updated", "business": business})
}

// ── Product Management ──────────────────────────────────────────────────────

type CreateProductRequest struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description"`
	PhotoData   string  `json:"photo_data"`
}

// AddProduct lists a new product; it enters the moderation queue as pending
func AddProduct(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var business models.Business
	if err := config.DB.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Create a business first before adding products"})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		BusinessID:  business.ID,
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Status:      models.ProductPending,
	}

	if req.PhotoData != "" {
		compressed, err := imaging.CompressDataURL(req.PhotoData, imaging.DefaultMaxSizeKB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not process product photo"})
			return
		}
		product.PhotoData = compressed
	}

	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product submitted for moderation",
		"product": product,
	})
}

// UpdateProduct edits a product (owner only). Edits send it back to the
// moderation queue.
func UpdateProduct(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	var product models.Product
	if err := config.DB.First(&product, c.Param("productId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var business models.Business
	if err := config.DB.Where("id = ? AND owner_id = ?", product.BusinessID, ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this product"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed := map[string]bool{"title": true, "price": true, "description": true}
	update := map[string]interface{}{"status": models.ProductPending}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if photo, ok := req["photo_data"].(string); ok && photo != "" {
		compressed, err := imaging.CompressDataURL(photo, imaging.DefaultMaxSizeKB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not process product photo"})
			return
		}
		update["photo_data"] = compressed
	}

	config.DB.Model(&product).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated and resubmitted for moderation", "product": product})
}

// DeleteProduct removes a product listing
func DeleteProduct(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	var product models.Product
	if err := config.DB.First(&product, c.Param("productId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	var business models.Business
	if err := config.DB.Where("id = ? AND owner_id = ?", product.BusinessID, ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this product"})
		return
	}
	config.DB.Delete(&product)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ── Orders ──────────────────────────────────────────────────────────────────

// GetBusinessOrders returns all orders placed against the owner's shop
func GetBusinessOrders(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	var business models.Business
	if err := config.DB.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No business found for your account"})
		return
	}

	var orders []models.Order
	query := config.DB.Where("business_id = ?", business.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"business":      business.Name,
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// ── AI Assists ──────────────────────────────────────────────────────────────

type DescribeProductRequest struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category"`
}

// GenerateProductDescription asks the assist provider to write listing copy
func GenerateProductDescription(c *gin.Context) {
	var req DescribeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := assist.NewClientFromEnv()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	description, err := client.DescribeProduct(c.Request.Context(), req.Title, req.Category)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": description})
}

// GenerateShopAudioIntro produces a spoken shop introduction as WAV media
func GenerateShopAudioIntro(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var business models.Business
	if err := config.DB.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No business found for your account"})
		return
	}

	client, err := assist.NewClientFromEnv()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	media, err := client.ShopAudioIntro(c.Request.Context(),
		business.Name, business.Category, business.Description, business.Address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

// ── Premium Subscription ────────────────────────────────────────────────────

// SubscribePremium creates a fixed-amount payment order with the gateway
func SubscribePremium(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var business models.Business
	if err := config.DB.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No business found for your account"})
		return
	}

	var owner models.User
	config.DB.First(&owner, ownerID)

	gateway, err := payments.NewGatewayFromEnv()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	gatewayOrderID := "prem-" + strings.ToLower(uuid.NewString()[:12])
	created, err := gateway.CreateOrder(c.Request.Context(), gatewayOrderID,
		strconv.FormatUint(uint64(owner.ID), 10), owner.Phone)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	payment := models.PremiumPayment{
		BusinessID:     business.ID,
		GatewayOrderID: created.OrderID,
		Amount:         created.OrderAmount,
		State:          "created",
	}
	config.DB.Create(&payment)

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Payment order created; complete checkout then verify",
		"gateway_order_id":   created.OrderID,
		"payment_session_id": created.PaymentSession,
		"amount":             created.OrderAmount,
	})
}

// VerifyPremium checks the gateway order and, if paid, activates premium
// for 30 days.
func VerifyPremium(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var business models.Business
	if err := config.DB.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No business found for your account"})
		return
	}

	gatewayOrderID := c.Param("gatewayOrderId")
	var payment models.PremiumPayment
	if err := config.DB.Where("gateway_order_id = ? AND business_id = ?", gatewayOrderID, business.ID).
		First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
		return
	}

	gateway, err := payments.NewGatewayFromEnv()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	verified, err := gateway.VerifyOrder(c.Request.Context(), gatewayOrderID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !verified.Paid() {
		config.DB.Model(&payment).Update("state", "failed")
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment not completed", "gateway_status": verified.OrderStatus})
		return
	}

	config.DB.Model(&payment).Update("state", "paid")
	until := time.Now().AddDate(0, 0, 30)
	config.DB.Model(&business).Updates(map[string]interface{}{
		"is_paid":        true,
		"premium_status": "active",
		"premium_until":  until,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":       "Premium activated",
		"premium_until": until,
	})
}
