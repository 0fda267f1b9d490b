package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const webhookColorOrange = 16753920

// Webhook posts Discord-formatted messages to an incoming webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookEmbed struct {
	Title  string         `json:"title"`
	Color  int            `json:"color"`
	Fields []webhookField `json:"fields"`
	Footer struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type webhookMessage struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds"`
}

func ownerSignupMessage(n OwnerSignup) webhookMessage {
	phone := n.PhoneNumber
	if phone == "" {
		phone = "-"
	}
	embed := webhookEmbed{
		Title: "New Signup Details",
		Color: webhookColorOrange,
		Fields: []webhookField{
			{Name: "Name", Value: n.Name, Inline: true},
			{Name: "Email", Value: n.Email, Inline: true},
			{Name: "Phone", Value: phone},
		},
	}
	embed.Footer.Text = "Login to Admin Dashboard to verify."
	return webhookMessage{
		Content: "@everyone **New Host Waiting for Verification!**",
		Embeds:  []webhookEmbed{embed},
	}
}

func (w *Webhook) NotifyOwnerSignup(ctx context.Context, n OwnerSignup) error {
	body, err := json.Marshal(ownerSignupMessage(n))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
