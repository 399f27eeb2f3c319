package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"localmart-api/config"
	"localmart-api/models"
)

func TestProductModerationFlow(t *testing.T) {
	r := newTestRouter(t)

	owner := &models.User{Name: "Shop Owner", Email: "owner@test.in", Role: models.RoleBusiness, Phone: "9333333333"}
	ownerToken := createUser(t, owner)
	moderator := &models.User{Name: "Mod", Email: "mod@test.in", Role: models.RoleModerator}
	modToken := createUser(t, moderator)
	customer := &models.User{
		Name: "Cust", Email: "cust@test.in", Role: models.RoleCustomer,
		House: "5", Street: "Lake Road", City: "Pune", Pincode: "411001",
	}
	customerToken := createUser(t, customer)

	// owner sets up shop and lists two products
	w := doJSON(t, r, http.MethodPost, "/api/business/", ownerToken, map[string]interface{}{
		"name":     "Sharma General Store",
		"category": "grocery",
		"address":  "1 Market Road",
		"phone":    "9333333333",
	})
	assertStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/api/business/products", ownerToken, map[string]interface{}{
		"title": "Organic Honey", "price": 250.0,
	})
	assertStatus(t, w, http.StatusCreated)
	w = doJSON(t, r, http.MethodPost, "/api/business/products", ownerToken, map[string]interface{}{
		"title": "Counterfeit Watch", "price": 999.0,
	})
	assertStatus(t, w, http.StatusCreated)

	var products []models.Product
	config.DB.Order("id asc").Find(&products)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, found %d", len(products))
	}
	for _, p := range products {
		if p.Status != models.ProductPending {
			t.Errorf("new product %q status = %s, want pending", p.Title, p.Status)
		}
	}
	honey, watch := products[0], products[1]

	// customers see nothing while moderation is pending
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/businesses/%d/products", honey.BusinessID), "", nil)
	assertStatus(t, w, http.StatusOK)
	if body := decodeBody(t, w); body["count"] != 0.0 {
		t.Errorf("pending products must be hidden, public count = %v", body["count"])
	}

	// moderator approves one, rejects the other
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/moderation/products/%d", honey.ID), modToken,
		map[string]string{"status": "approved"})
	assertStatus(t, w, http.StatusOK)
	if by, ok := decodeBody(t, w)["moderated_by"].(map[string]interface{}); !ok || by["role"] != "moderator" {
		t.Fatalf("response must name the acting staff role, got %v", decodeBody(t, w)["moderated_by"])
	}
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/moderation/products/%d", watch.ID), modToken,
		map[string]string{"status": "rejected", "note": "prohibited item"})
	assertStatus(t, w, http.StatusOK)

	// only the approved product is publicly visible
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/businesses/%d/products", honey.BusinessID), "", nil)
	body := decodeBody(t, w)
	if body["count"] != 1.0 {
		t.Fatalf("public count = %v, want 1", body["count"])
	}

	// the rejected product cannot be ordered
	w = doJSON(t, r, http.MethodPost, "/api/customer/orders", customerToken,
		map[string]interface{}{"product_id": watch.ID})
	assertStatus(t, w, http.StatusBadRequest)

	// the approved one can, and the order snapshots shop + product details
	w = doJSON(t, r, http.MethodPost, "/api/customer/orders", customerToken,
		map[string]interface{}{"product_id": honey.ID})
	assertStatus(t, w, http.StatusCreated)

	var order models.Order
	if err := config.DB.First(&order).Error; err != nil {
		t.Fatal(err)
	}
	if order.Status != models.StatusPending {
		t.Errorf("new order status = %s, want pending", order.Status)
	}
	if order.ShopName != "Sharma General Store" || order.ProductTitle != "Organic Honey" {
		t.Errorf("order snapshot incomplete: shop=%q product=%q", order.ShopName, order.ProductTitle)
	}
	if order.DeliveryAddress == "" {
		t.Error("order must fall back to the customer's profile address")
	}
	if order.DisplayID == "" {
		t.Error("order must get a display id")
	}
}

func TestModerationRequiresStaffRole(t *testing.T) {
	r := newTestRouter(t)

	customer := &models.User{Name: "Cust", Email: "cust@test.in", Role: models.RoleCustomer}
	customerToken := createUser(t, customer)

	w := doJSON(t, r, http.MethodGet, "/api/moderation/products", customerToken, nil)
	assertStatus(t, w, http.StatusForbidden)
}

func TestAdminVerifyAndPremium(t *testing.T) {
	r := newTestRouter(t)

	admin := &models.User{Name: "Admin", Email: "admin@test.in", Role: models.RoleAdmin}
	adminToken := createUser(t, admin)

	business := &models.Business{OwnerID: 99, Name: "Corner Cafe", Address: "2 Hill Road"}
	if err := config.DB.Create(business).Error; err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/businesses/%d/verify", business.ID), adminToken,
		map[string]bool{"verified": true})
	assertStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/businesses/%d/premium", business.ID), adminToken,
		map[string]interface{}{"active": true, "days": 7})
	assertStatus(t, w, http.StatusOK)

	var reloaded models.Business
	config.DB.First(&reloaded, business.ID)
	if !reloaded.Verified {
		t.Error("business should be verified")
	}
	if !reloaded.IsPremium() {
		t.Error("business should be premium after the grant")
	}

	// revoke, then the premium predicate must flip off
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/businesses/%d/premium", business.ID), adminToken,
		map[string]interface{}{"active": false})
	assertStatus(t, w, http.StatusOK)
	config.DB.First(&reloaded, business.ID)
	if reloaded.IsPremium() {
		t.Error("revoked business must not read as premium")
	}
}
