// Package assist wraps the generative-AI provider behind four small
// request/response flows: product descriptions, support chat, and two
// text-to-speech briefs. Every flow fails fast when the provider
// credential is unset, before any network call.
package assist

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

const (
	defaultAPIURL    = "https://generativelanguage.googleapis.com/v1beta"
	textModel        = "gemini-2.0-flash"
	speechModel      = "gemini-2.5-flash-preview-tts"
	speechSampleRate = 24000
)

var ErrNoCredential = errors.New("assist not configured: set ASSIST_API_KEY")

type Client struct {
	apiKey string
	apiURL string
	http   *http.Client
}

// NewClientFromEnv builds a client from ASSIST_API_KEY / ASSIST_API_URL.
// Required: ASSIST_API_KEY.
func NewClientFromEnv() (*Client, error) {
	key := os.Getenv("ASSIST_API_KEY")
	if key == "" {
		return nil, ErrNoCredential
	}
	url := os.Getenv("ASSIST_API_URL")
	if url == "" {
		url = defaultAPIURL
	}
	return &Client{
		apiKey: key,
		apiURL: strings.TrimRight(url, "/"),
		http:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// ── provider wire format ────────────────────────────────────────────────────

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	ResponseMimeType   string        `json:"responseMimeType,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoice `json:"prebuiltVoiceConfig"`
}

type prebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.apiURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("assist provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("assist provider sent unreadable response: %w", err)
	}
	return &out, nil
}

func (r *generateResponse) firstText() (string, error) {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", errors.New("assist provider returned no usable text")
}

func (r *generateResponse) firstAudio() (string, error) {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.Data, nil
			}
		}
	}
	return "", errors.New("assist provider returned no audio payload")
}

// ── flows ───────────────────────────────────────────────────────────────────

// DescribeProduct writes a short selling description for a product listing.
func (c *Client) DescribeProduct(ctx context.Context, title, category string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short, appealing product description (2-3 sentences, plain text) for a hyperlocal marketplace listing.\nProduct: %s\nCategory: %s",
		title, category)
	resp, err := c.generate(ctx, textModel, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	text, err := resp.firstText()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ChatReply is the structured answer from the support-chat flow.
type ChatReply struct {
	Reply           string `json:"reply"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// SupportChat answers a customer support query. The provider is asked for
// JSON so the optional suggested action survives the trip.
func (c *Client) SupportChat(ctx context.Context, query string) (*ChatReply, error) {
	prompt := fmt.Sprintf(
		"You are the support assistant for a hyperlocal marketplace (shops, orders, delivery riders). Answer the user's question helpfully and briefly. Respond as JSON with fields \"reply\" and optional \"suggestedAction\" (one of: view_orders, contact_shop, update_profile).\nQuestion: %s",
		query)
	resp, err := c.generate(ctx, textModel, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}
	text, err := resp.firstText()
	if err != nil {
		return nil, err
	}
	var reply ChatReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil || reply.Reply == "" {
		return nil, errors.New("assist provider returned no usable reply")
	}
	return &reply, nil
}

// OrderVoiceBrief speaks an order summary for the rider. Returns a WAV
// data URL built from the provider's raw PCM payload.
func (c *Client) OrderVoiceBrief(ctx context.Context, productTitle, shopName, customerName, address string) (string, error) {
	script := fmt.Sprintf(
		"New delivery. Pick up %s from %s. Deliver to %s at %s.",
		productTitle, shopName, customerName, address)
	return c.speak(ctx, script)
}

// ShopAudioIntro speaks a short shop introduction for the listing page.
func (c *Client) ShopAudioIntro(ctx context.Context, shopName, category, description, address string) (string, error) {
	script := fmt.Sprintf(
		"Welcome to %s, your local %s. %s Find us at %s.",
		shopName, category, description, address)
	return c.speak(ctx, script)
}

func (c *Client) speak(ctx context.Context, script string) (string, error) {
	resp, err := c.generate(ctx, speechModel, generateRequest{
		Contents: []content{{Parts: []part{{Text: script}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoice{VoiceName: "Kore"}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	pcmB64, err := resp.firstAudio()
	if err != nil {
		return "", err
	}
	return PCMBase64ToWAVDataURL(pcmB64, speechSampleRate)
}
