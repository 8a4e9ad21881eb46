// Package webhook executes Discord webhooks.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// MaxContentLength is the longest message body Discord accepts.
const MaxContentLength = 2000

// DefaultTimeout applies when the caller does not set one.
const DefaultTimeout = 15 * time.Second

// Message is the JSON body of a webhook execution.
type Message struct {
	Content string `json:"content"`
	// ThreadName opens a new forum post with this title. It must be empty
	// when replying to an existing thread.
	ThreadName string `json:"thread_name,omitempty"`
	Username   string `json:"username,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// Result is the message Discord created, returned because of wait=true.
type Result struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// Config holds the client settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Client executes webhooks over HTTP.
type Client struct {
	http *resty.Client
}

// NewClient creates a client. Zero config values fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "dsm"
	}

	cli := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Client{http: cli}
}

// Execute posts msg to webhookURL. A non-empty threadID sends the message
// as a reply in that forum thread.
func (c *Client) Execute(ctx context.Context, webhookURL string, msg *Message, threadID string) (*Result, error) {
	if strings.TrimSpace(msg.Content) == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(msg.Content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("wait", "true").
		SetBody(msg)
	if threadID != "" {
		req.SetQueryParam("thread_id", threadID)
	}

	resp, err := req.Post(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("webhook request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	if !isJSON(resp.Header().Get("Content-Type")) {
		return nil, fmt.Errorf("%w (status %d)", ErrNotJSON, resp.StatusCode())
	}

	var result Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrBadResponse, err)
	}
	return &result, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	var discordErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(resp.Body(), &discordErr) == nil && discordErr.Message != "" {
		return &APIError{StatusCode: resp.StatusCode(), Code: discordErr.Code, Message: discordErr.Message}
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: body}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
