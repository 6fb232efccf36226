// Package ai wraps the hosted model APIs: the conversational model that
// drives the sales chat and the vision model that judges payment screenshots.
// Both are black boxes here; only their request/response contracts matter.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	chatModel      = "gemini-3-pro-preview"
	visionModel    = "gemini-2.5-flash-image"
)

var (
	ErrMissingAPIKey = errors.New("model API key not set")
	ErrRateLimited   = errors.New("model API rate limited")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Judgment is the structured verdict on an uploaded payment screenshot.
// Only Valid gates order creation; the rest is for the chat reply.
type Judgment struct {
	Valid            bool    `json:"valid"`
	AmountFound      int     `json:"amount_found,omitempty"`
	IsPaymentReceipt bool    `json:"is_payment_receipt,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	Reason           string  `json:"reason,omitempty"`
}

type Client struct {
	apiKey  string
	baseURL string
	http    *resty.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    resty.New().SetTimeout(timeout),
	}
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ChatReply sends the role-tagged history plus the new user message to the
// conversational model. instruction carries the sales persona, the live
// catalog and the session user.
func (c *Client) ChatReply(ctx context.Context, history []Message, userMessage, instruction string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		role := "model"
		if m.Role == "user" {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: userMessage}}})

	req := generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: instruction}}},
		GenerationConfig:  &generationConfig{Temperature: 0.7},
	}
	return c.generate(ctx, chatModel, req)
}

// VerifyScreenshot asks the vision model whether the uploaded image is a
// successful payment receipt for the expected amount. The model answers in
// free text; the first JSON object found in it is the verdict.
func (c *Client) VerifyScreenshot(ctx context.Context, imageBase64 string, expectedAmount int) (*Judgment, error) {
	// Data-URL uploads arrive with a "data:image/...;base64," prefix.
	if i := strings.Index(imageBase64, ","); i >= 0 {
		imageBase64 = imageBase64[i+1:]
	}

	req := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: imageBase64}},
				{Text: verificationPrompt(expectedAmount)},
			},
		}},
	}
	text, err := c.generate(ctx, visionModel, req)
	if err != nil {
		return nil, err
	}

	raw := firstJSONObject(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON verdict in model reply")
	}
	var j Judgment
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	if !j.IsPaymentReceipt {
		j.Valid = false
		if j.Reason == "" {
			j.Reason = notReceiptReason
		}
	}
	return &j, nil
}

func (c *Client) generate(ctx context.Context, model string, req generateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model))
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("model request: unexpected status %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

func firstJSONObject(s string) string {
	return jsonObjectRe.FindString(s)
}
