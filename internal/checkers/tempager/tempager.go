// Package tempager reads an AVTECH TemPageR 4E temperature sensor.
//
// The sensor answers /getData.html without any HTTP headers and with a
// single line of malformed JSON, so the fetch goes over a raw socket and
// the reply is repaired before parsing. Written against firmware v2.6.0;
// later firmware may differ.
package tempager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

type Checker struct {
	NameValue string
	Address   string
	Timeout   time.Duration
	WarnAt    float64
	CritAt    float64
}

type Sensor struct {
	Label string
	TempC float64
}

func (c *Checker) Name() string {
	return c.NameValue
}

func (c *Checker) Check(ctx context.Context) (check.Result, error) {
	sensors, err := c.Fetch(ctx)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: err.Error(), CheckedAt: time.Now()}, err
	}
	if len(sensors) == 0 {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "sensor reported no readings", CheckedAt: time.Now()}, fmt.Errorf("no readings from %s", c.Address)
	}

	warn := c.WarnAt
	crit := c.CritAt
	if warn == 0 {
		warn = 28
	}
	if crit == 0 {
		crit = 30
	}

	status := check.StatusOK
	metrics := make(map[string]any, len(sensors))
	parts := make([]string, 0, len(sensors))
	for _, s := range sensors {
		metrics[s.Label] = s.TempC
		parts = append(parts, fmt.Sprintf("%s %.1fC", s.Label, s.TempC))
		switch {
		case s.TempC >= crit:
			status = check.StatusCritical
		case s.TempC >= warn && status != check.StatusCritical:
			status = check.StatusWarning
		}
	}

	message := "Temperatures within thresholds: " + strings.Join(parts, ", ")
	if status != check.StatusOK {
		message = "Temperature threshold exceeded: " + strings.Join(parts, ", ")
	}

	return check.Result{
		Name:      c.NameValue,
		Status:    status,
		Message:   message,
		Metrics:   metrics,
		CheckedAt: time.Now(),
	}, nil
}

// Fetch writes a bare GET line to the sensor and reads until the sensor
// closes the connection or the deadline passes.
func (c *Checker) Fetch(ctx context.Context) ([]Sensor, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	addr := c.Address
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "80")
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect sensor %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	if _, err := io.WriteString(conn, "GET /getData.html\n\n"); err != nil {
		return nil, fmt.Errorf("request sensor data: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil && len(raw) == 0 {
		return nil, fmt.Errorf("read sensor data: %w", err)
	}
	return ParseResponse(string(raw))
}

var (
	keyPattern   = regexp.MustCompile(`\{([a-z]*):`)
	commaPattern = regexp.MustCompile(`,([a-z]*)`)
)

// RepairJSON quotes the bare object keys in the sensor reply. The comma
// rewrite also mangles `,{` into `,""{`, which the final replace undoes.
func RepairJSON(raw string) string {
	raw = keyPattern.ReplaceAllString(raw, `{"$1":`)
	raw = commaPattern.ReplaceAllString(raw, `,"$1"`)
	return strings.ReplaceAll(raw, `,""{`, `,{`)
}

// tempValue accepts both the quoted readings older firmware sends
// ("25.40") and bare numbers.
type tempValue float64

func (t *tempValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("temperature reading %q: %w", s, err)
	}
	*t = tempValue(f)
	return nil
}

func ParseResponse(raw string) ([]Sensor, error) {
	var payload struct {
		Sensor []struct {
			Label string    `json:"label"`
			TempC tempValue `json:"tempc"`
		} `json:"sensor"`
	}
	repaired := strings.TrimSpace(RepairJSON(raw))
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, fmt.Errorf("parse sensor data: %w", err)
	}

	sensors := make([]Sensor, 0, len(payload.Sensor))
	for _, s := range payload.Sensor {
		sensors = append(sensors, Sensor{Label: s.Label, TempC: float64(s.TempC)})
	}
	return sensors, nil
}
