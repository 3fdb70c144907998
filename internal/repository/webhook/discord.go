package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"trial-intake-api/internal/domain"
	"trial-intake-api/pkg/metrics"
)

const (
	TrialEmbedTitle = "New Free Trial Request"
	TrialEmbedColor = 0x58B4AE

	// ISO-8601 UTC with millisecond precision
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Payload is a Discord webhook execute body.
type Payload struct {
	Embeds []Embed `json:"embeds"`
}

type Embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []EmbedField `json:"fields"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// StatusError is returned when the webhook answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == domain.ErrRelayRejected
}

// DiscordNotifier posts trial notifications to a Discord webhook URL
type DiscordNotifier struct {
	url    string
	client *http.Client
}

// NewDiscordNotifier creates a notifier; an empty url leaves it unconfigured.
func NewDiscordNotifier(url string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Configured checks if a webhook destination is set
func (n *DiscordNotifier) Configured() bool {
	return n.url != ""
}

// TrialPayload builds the embed announcing a new trial request.
func TrialPayload(note domain.TrialNotification) Payload {
	return Payload{
		Embeds: []Embed{{
			Title: TrialEmbedTitle,
			Color: TrialEmbedColor,
			Fields: []EmbedField{
				{Name: "Email", Value: note.Email, Inline: true},
				{Name: "Source", Value: note.Source, Inline: true},
				{Name: "Time", Value: note.SubmittedAt.UTC().Format(timestampLayout)},
			},
		}},
	}
}

// Notify sends exactly one POST to the webhook. It does not retry.
func (n *DiscordNotifier) Notify(ctx context.Context, note domain.TrialNotification) error {
	if !n.Configured() {
		return fmt.Errorf("webhook url is not configured")
	}

	body, err := json.Marshal(TrialPayload(note))
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		metrics.WebhookRelayDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	metrics.WebhookRelayDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
