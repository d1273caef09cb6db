package linebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Message is an outbound chat message. The bot only ever sends text,
// optionally carrying quick-reply buttons with open ticket codes.
type Message struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	QuickReply *QuickReply `json:"quickReply,omitempty"`
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string           `json:"type"`
	Action QuickReplyAction `json:"action"`
}

type QuickReplyAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

func NewTextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// WithQuickReplies attaches one message-action button per label.
// LINE caps quick replies at 13 items, extras are dropped.
func (m Message) WithQuickReplies(labels ...string) Message {
	if len(labels) == 0 {
		return m
	}
	if len(labels) > 13 {
		labels = labels[:13]
	}

	items := make([]QuickReplyItem, 0, len(labels))
	for _, label := range labels {
		items = append(items, QuickReplyItem{
			Type:   "action",
			Action: QuickReplyAction{Type: "message", Label: label, Text: label},
		})
	}

	m.QuickReply = &QuickReply{Items: items}
	return m
}

type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

type ClientConfig struct {
	ChannelAccessToken string
	// APIBaseURL serves the messaging endpoints, DataBaseURL serves
	// message content downloads. LINE hosts them on separate domains.
	APIBaseURL  string
	DataBaseURL string
	Timeout     time.Duration
}

// Client talks to the LINE Messaging API: replies, pushes, profile
// lookups and attachment downloads.
type Client struct {
	channelToken string
	apiBaseURL   string
	dataBaseURL  string
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewClient(config ClientConfig, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = "https://api.line.me"
	}

	dataBaseURL := config.DataBaseURL
	if dataBaseURL == "" {
		dataBaseURL = "https://api-data.line.me"
	}

	return &Client{
		channelToken: config.ChannelAccessToken,
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		dataBaseURL:  strings.TrimRight(dataBaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// Reply answers one inbound event. Reply tokens are single-use and
// expire quickly, so failures here are expected occasionally and the
// caller only logs them.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...Message) error {
	payload := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   messages,
	}
	return c.post(ctx, "/v2/bot/message/reply", payload)
}

// Push sends messages outside a reply window, addressed by user id.
func (c *Client) Push(ctx context.Context, to string, messages ...Message) error {
	payload := map[string]interface{}{
		"to":       to,
		"messages": messages,
	}
	return c.post(ctx, "/v2/bot/message/push", payload)
}

// GetProfile fetches the sender's display name and picture, used on
// follow events to refresh the stored mapping.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiBaseURL+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LINE profile API returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	return &profile, nil
}

// GetMessageContent streams an uploaded attachment. The caller owns
// the returned body and must close it.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.dataBaseURL+"/v2/bot/message/"+messageID+"/content", nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create content request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("content request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("LINE content API returned status %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("LINE API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
