// Package mailer sends transactional email through the hosted mail
// provider. Like the other provider clients, it fails fast when the
// credential is unset instead of attempting the network.
package mailer

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

const defaultAPIURL = "https://api.useplunk.com/v1/send"

var ErrNoCredential = errors.New("mailer not configured: set MAIL_API_KEY")

type Mailer struct {
	apiKey string
	from   string
	apiURL string
	http   *http.Client
}

// NewFromEnv builds a mailer from MAIL_API_KEY and optional MAIL_FROM /
// MAIL_API_URL.
func NewFromEnv() (*Mailer, error) {
	key := os.Getenv("MAIL_API_KEY")
	if key == "" {
		return nil, ErrNoCredential
	}
	url := os.Getenv("MAIL_API_URL")
	if url == "" {
		url = defaultAPIURL
	}
	return &Mailer{
		apiKey: key,
		from:   os.Getenv("MAIL_FROM"),
		apiURL: url,
		http:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type sendBody struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	From    string `json:"from,omitempty"`
}

// Send delivers a single message
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	payload := sendBody{To: to, Subject: subject, Body: body, From: m.from}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
