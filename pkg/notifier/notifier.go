// Package notifier delivers reminders to the device-level notification
// channel. Delivery is fire-and-forget: it is never acknowledged back and a
// failure only costs the push, the in-app notification is recorded regardless.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier sends a device notification with a title and body.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// HTTPNotifier posts notifications to a configured push gateway.
type HTTPNotifier struct {
	url    string
	client *http.Client
}

// New returns an HTTP notifier for the given gateway URL, or a no-op notifier
// when the URL is empty (push permission absent or not configured).
func New(url string) Notifier {
	if url == "" {
		logrus.Info("No push gateway configured, device notifications disabled")
		return NoopNotifier{}
	}
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts the notification to the gateway.
func (n *HTTPNotifier) Send(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(pushPayload{Title: title, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Send(ctx context.Context, title, body string) error {
	return nil
}
