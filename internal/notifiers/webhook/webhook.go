package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/notify"
)

type Notifier struct {
	NameValue string
	URL       string
	Timeout   time.Duration
}

// payload pins the wire format so receivers do not depend on the
// internal Event shape.
type payload struct {
	Check      string            `json:"check"`
	Type       string            `json:"type,omitempty"`
	Status     string            `json:"status"`
	Summary    string            `json:"summary"`
	Details    string            `json:"details,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	OccurredAt string            `json:"occurred_at"`
}

func (n *Notifier) Name() string {
	return n.NameValue
}

func (n *Notifier) Send(ctx context.Context, event notify.Event) error {
	body, err := json.Marshal(payload{
		Check:      event.Service,
		Type:       event.Type,
		Status:     event.Status,
		Summary:    event.Summary,
		Details:    event.Details,
		Labels:     event.Labels,
		OccurredAt: event.OccurredAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: n.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
