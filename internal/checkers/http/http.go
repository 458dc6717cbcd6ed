// Package httpcheck probes a plain HTTP endpoint, for the studio web
// services (stream relay status pages and the like) that sit next to the
// playout server.
package httpcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

type Checker struct {
	NameValue    string
	URL          string
	Timeout      time.Duration
	ExpectStatus int
	BodyContains string
}

func (c *Checker) Name() string {
	return c.NameValue
}

func (c *Checker) Check(ctx context.Context) (check.Result, error) {
	client := &http.Client{Timeout: c.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "build request: " + err.Error(), CheckedAt: time.Now()}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusCritical, Message: "request failed: " + err.Error(), CheckedAt: time.Now()}, err
	}
	defer resp.Body.Close()

	status := check.StatusOK
	message := "HTTP " + resp.Status
	switch {
	case c.ExpectStatus != 0 && resp.StatusCode != c.ExpectStatus:
		status = check.StatusCritical
		message = fmt.Sprintf("HTTP %s, expected %d", resp.Status, c.ExpectStatus)
	case c.ExpectStatus == 0 && resp.StatusCode >= 400:
		status = check.StatusCritical
	}

	if status == check.StatusOK && c.BodyContains != "" {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "read body: " + err.Error(), CheckedAt: time.Now()}, err
		}
		if !strings.Contains(string(body), c.BodyContains) {
			status = check.StatusCritical
			message = fmt.Sprintf("response does not contain %q", c.BodyContains)
		}
	}

	return check.Result{
		Name:      c.NameValue,
		Status:    status,
		Message:   message,
		Metrics:   map[string]any{"status_code": resp.StatusCode},
		CheckedAt: time.Now(),
	}, nil
}
