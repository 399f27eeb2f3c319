package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"localmart-api/config"
	"localmart-api/models"

	"github.com/golang-jwt/jwt/v5"
)

// The reset endpoint must never hand the token back to the caller:
// anyone who knew an email address could otherwise take over the
// account straight from the response body.
func TestPasswordResetResponseCarriesNoToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name": "Asha", "email": "asha@example.com", "password": "original1", "role": "customer",
	})
	assertStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/api/auth/password-reset", "", map[string]interface{}{
		"email": "asha@example.com",
	})
	assertStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if _, leaked := body["reset_token"]; leaked {
		t.Fatal("response exposes reset_token")
	}
	if strings.Contains(w.Body.String(), "eyJ") {
		t.Fatalf("response appears to contain a JWT: %s", w.Body.String())
	}
	if body["message"] == "" {
		t.Fatal("expected the generic confirmation message")
	}

	// Unknown email gets the identical reply, so the endpoint cannot be
	// used for account enumeration either.
	w2 := doJSON(t, r, http.MethodPost, "/api/auth/password-reset", "", map[string]interface{}{
		"email": "nobody@example.com",
	})
	assertStatus(t, w2, http.StatusOK)
	if w2.Body.String() != w.Body.String() {
		t.Fatalf("replies differ between known and unknown email:\n%s\n%s", w.Body.String(), w2.Body.String())
	}
}

func TestPasswordResetConfirmStillWorks(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name": "Asha", "email": "asha@example.com", "password": "original1", "role": "customer",
	})
	assertStatus(t, w, http.StatusCreated)

	var user models.User
	if err := config.DB.Where("email = ?", "asha@example.com").First(&user).Error; err != nil {
		t.Fatal(err)
	}

	// Stand in for the link the mailer would deliver
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(30 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret)
	if err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/password-reset/confirm", "", map[string]interface{}{
		"token": signed, "new_password": "changed99",
	})
	assertStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "asha@example.com", "password": "changed99",
	})
	assertStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "asha@example.com", "password": "original1",
	})
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestAdminForceStatusRejectsUnknownStatus(t *testing.T) {
	r := newTestRouter(t)
	adminToken := createUser(t, &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin})
	order := seedOrder(t, 1, 1)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", order.ID), adminToken, map[string]interface{}{
		"status": "totally_bogus", "reason": "testing",
	})
	assertStatus(t, w, http.StatusBadRequest)

	var reloaded models.Order
	if err := config.DB.First(&reloaded, order.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.StatusPending {
		t.Fatalf("order status changed to %q despite rejected request", reloaded.Status)
	}
	var historyCount int64
	config.DB.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&historyCount)
	if historyCount != 0 {
		t.Fatalf("rejected override still wrote %d history rows", historyCount)
	}
}

func TestAdminForceStatusRecordsActor(t *testing.T) {
	r := newTestRouter(t)
	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	adminToken := createUser(t, admin)
	order := seedOrder(t, 1, 1)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", order.ID), adminToken, map[string]interface{}{
		"status": "delivered", "reason": "courier app outage",
	})
	assertStatus(t, w, http.StatusOK)

	var reloaded models.Order
	if err := config.DB.First(&reloaded, order.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.StatusDelivered {
		t.Fatalf("status = %q, want delivered", reloaded.Status)
	}

	var history models.OrderStatusHistory
	if err := config.DB.Where("order_id = ?", order.ID).First(&history).Error; err != nil {
		t.Fatal(err)
	}
	if history.ChangedBy != admin.ID {
		t.Fatalf("history ChangedBy = %d, want admin %d", history.ChangedBy, admin.ID)
	}
	if history.FromStatus != models.StatusPending || history.ToStatus != models.StatusDelivered {
		t.Fatalf("history transition = %s to %s", history.FromStatus, history.ToStatus)
	}
	if !strings.HasPrefix(history.Note, "[ADMIN OVERRIDE]") {
		t.Fatalf("history note %q missing override marker", history.Note)
	}
}
