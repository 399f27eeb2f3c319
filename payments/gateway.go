// Package payments wraps the hosted payment gateway used for premium
// subscriptions. Two calls: create an order, then verify it after the
// customer completes checkout. Both fail fast when credentials are unset.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultAPIURL = "https://sandbox.cashfree.com/pg"

// PremiumAmount is the fixed price of a premium subscription, in INR.
const PremiumAmount = 299.0

var ErrNoCredentials = errors.New("payment gateway not configured: set PAYMENT_CLIENT_ID and PAYMENT_CLIENT_SECRET")

type Gateway struct {
	clientID     string
	clientSecret string
	apiURL       string
	http         *http.Client
}

// NewGatewayFromEnv builds a gateway client from PAYMENT_CLIENT_ID,
// PAYMENT_CLIENT_SECRET and optional PAYMENT_API_URL.
func NewGatewayFromEnv() (*Gateway, error) {
	id := os.Getenv("PAYMENT_CLIENT_ID")
	secret := os.Getenv("PAYMENT_CLIENT_SECRET")
	if id == "" || secret == "" {
		return nil, ErrNoCredentials
	}
	url := os.Getenv("PAYMENT_API_URL")
	if url == "" {
		url = defaultAPIURL
	}
	return &Gateway{
		clientID:     id,
		clientSecret: secret,
		apiURL:       strings.TrimRight(url, "/"),
		http:         &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// GatewayOrder is the provider's view of a created payment order.
type GatewayOrder struct {
	OrderID        string  `json:"order_id"`
	OrderAmount    float64 `json:"order_amount"`
	OrderStatus    string  `json:"order_status"`
	PaymentSession string  `json:"payment_session_id"`
}

type createOrderRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     float64         `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails customerDetails `json:"customer_details"`
}

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerPhone string `json:"customer_phone"`
}

// CreateOrder registers a fixed-amount premium order with the gateway.
func (g *Gateway) CreateOrder(ctx context.Context, orderID, customerID, customerPhone string) (*GatewayOrder, error) {
	body := createOrderRequest{
		OrderID:       orderID,
		OrderAmount:   PremiumAmount,
		OrderCurrency: "INR",
		CustomerDetails: customerDetails{
			CustomerID:    customerID,
			CustomerPhone: customerPhone,
		},
	}
	var out GatewayOrder
	if err := g.do(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOrder fetches the order back from the gateway so the caller can
// check whether it was actually paid.
func (g *Gateway) VerifyOrder(ctx context.Context, orderID string) (*GatewayOrder, error) {
	var out GatewayOrder
	if err := g.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Paid reports whether the gateway considers the order settled.
func (o *GatewayOrder) Paid() bool {
	return o.OrderStatus == "PAID"
}

func (g *Gateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.apiURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", "2023-08-01")
	req.Header.Set("x-client-id", g.clientID)
	req.Header.Set("x-client-secret", g.clientSecret)

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
