// Package disk holds the local disk checks: SMART health scraped from
// smartctl and filesystem usage via gopsutil.
package disk

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

type SmartChecker struct {
	NameValue string
	Device    string
	Timeout   time.Duration
	WarnTemp  int
	CritTemp  int
}

// SmartReport is the handful of fields pulled out of `smartctl -H -A`.
type SmartReport struct {
	Healthy            bool
	Temperature        int
	ReallocatedSectors int
	PendingSectors     int
}

func (c *SmartChecker) Name() string {
	return c.NameValue
}

func (c *SmartChecker) Check(ctx context.Context) (check.Result, error) {
	if strings.TrimSpace(c.Device) == "" {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "device is required", CheckedAt: time.Now()}, fmt.Errorf("device required")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(cctx, "smartctl", "-H", "-A", c.Device).Output()
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: fmt.Sprintf("smartctl %s: %v", c.Device, err), CheckedAt: time.Now()}, err
	}

	report, err := ParseSmartReport(string(out))
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: err.Error(), CheckedAt: time.Now()}, err
	}

	status, message := c.evaluate(report)
	return check.Result{
		Name:    c.NameValue,
		Status:  status,
		Message: message,
		Metrics: map[string]any{
			"temperature":         report.Temperature,
			"reallocated_sectors": report.ReallocatedSectors,
			"pending_sectors":     report.PendingSectors,
		},
		CheckedAt: time.Now(),
	}, nil
}

func (c *SmartChecker) evaluate(r SmartReport) (check.Status, string) {
	warnTemp := c.WarnTemp
	critTemp := c.CritTemp
	if warnTemp == 0 {
		warnTemp = 50
	}
	if critTemp == 0 {
		critTemp = 60
	}

	switch {
	case !r.Healthy:
		return check.StatusCritical, fmt.Sprintf("SMART health check failed on %s", c.Device)
	case r.PendingSectors > 0:
		return check.StatusCritical, fmt.Sprintf("%d pending sectors on %s", r.PendingSectors, c.Device)
	case r.ReallocatedSectors > 0:
		return check.StatusWarning, fmt.Sprintf("%d reallocated sectors on %s", r.ReallocatedSectors, c.Device)
	case r.Temperature >= critTemp:
		return check.StatusCritical, fmt.Sprintf("%s at %dC", c.Device, r.Temperature)
	case r.Temperature >= warnTemp:
		return check.StatusWarning, fmt.Sprintf("%s at %dC", c.Device, r.Temperature)
	}
	return check.StatusOK, fmt.Sprintf("%s healthy, %dC", c.Device, r.Temperature)
}

// ParseSmartReport scrapes the overall health verdict and the attribute
// table. The raw value sits in the tenth column; for the temperature
// attribute anything after the first token (min/max annotations) is
// ignored.
func ParseSmartReport(raw string) (SmartReport, error) {
	report := SmartReport{}
	sawHealth := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "SMART overall-health self-assessment test result:") {
			sawHealth = true
			report.Healthy = strings.HasSuffix(line, "PASSED") || strings.HasSuffix(line, "OK")
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}
		value, err := strconv.Atoi(fields[9])
		if err != nil {
			continue
		}
		switch fields[1] {
		case "Temperature_Celsius", "Airflow_Temperature_Cel":
			report.Temperature = value
		case "Reallocated_Sector_Ct":
			report.ReallocatedSectors = value
		case "Current_Pending_Sector":
			report.PendingSectors = value
		}
	}

	if !sawHealth {
		return report, fmt.Errorf("no SMART health verdict in smartctl output")
	}
	return report, nil
}
