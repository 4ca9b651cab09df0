package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ExpoPushClient sends push notifications via Expo's Push API.
//
// How it works:
// 1. The mobile app obtains an Expo Push Token (looks like "ExponentPushToken[xxx]")
// 2. The app registers this token with the backend (stored in the expoTokens collection)
// 3. To notify a user, the backend POSTs to Expo's API with their token
// 4. Expo handles delivery to both iOS and Android and returns a ticket
type ExpoPushClient struct {
	pushURL    string
	httpClient *http.Client
}

// ExpoPushMessage is the payload for Expo's Push API.
type ExpoPushMessage struct {
	To       []string       `json:"to"`                 // Expo push tokens
	Title    string         `json:"title,omitempty"`    // Notification title
	Body     string         `json:"body"`               // Notification body (required)
	Data     map[string]any `json:"data,omitempty"`     // Custom data payload
	Sound    string         `json:"sound,omitempty"`    // "default" or custom sound
	Priority string         `json:"priority,omitempty"` // "default", "normal", "high"
}

// ExpoPushResponse is the response from Expo's API.
type ExpoPushResponse struct {
	Data []ExpoPushTicket `json:"data"`
}

// ExpoPushTicket is Expo's per-message delivery receipt.
type ExpoPushTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id"`     // Ticket ID for receipt checking
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"` // "DeviceNotRegistered", "MessageTooBig", etc.
	} `json:"details,omitempty"`
}

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// NewExpoPushClient creates a new Expo Push client. pushURL overrides the
// API endpoint; pass "" for the real Expo service. Expo Push requires no
// credentials.
func NewExpoPushClient(pushURL string) *ExpoPushClient {
	if pushURL == "" {
		pushURL = defaultExpoPushURL
	}
	return &ExpoPushClient{
		pushURL: pushURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsExpoPushToken reports whether token has the Expo push token format.
func IsExpoPushToken(token string) bool {
	return (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]")
}

// SendToToken sends a push notification to a single Expo push token and
// returns the delivery ticket. A transport failure, a non-200 response or
// an error-status ticket all come back as errors; delivery is attempted
// exactly once, retry policy is the caller's concern.
func (c *ExpoPushClient) SendToToken(ctx context.Context, token, title, body string, data map[string]any) (*ExpoPushTicket, error) {
	message := ExpoPushMessage{
		To:       []string{token},
		Title:    title,
		Body:     body,
		Sound:    "default",
		Priority: "high",
		Data:     data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expo api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var pushResp ExpoPushResponse
	if err := json.Unmarshal(respBody, &pushResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(pushResp.Data) == 0 {
		return nil, fmt.Errorf("expo api returned no ticket")
	}

	ticket := pushResp.Data[0]
	if ticket.Status != "ok" {
		return &ticket, fmt.Errorf("expo delivery rejected: %s (error: %s)", ticket.Message, ticket.Details.Error)
	}

	return &ticket, nil
}
