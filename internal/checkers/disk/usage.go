package disk

import (
	"context"
	"fmt"
	"strings"
	"time"

	gopsdisk "github.com/shirou/gopsutil/v3/disk"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

type UsageChecker struct {
	NameValue   string
	Path        string
	WarnPercent float64
	CritPercent float64
}

func (c *UsageChecker) Name() string {
	return c.NameValue
}

func (c *UsageChecker) Check(ctx context.Context) (check.Result, error) {
	if strings.TrimSpace(c.Path) == "" {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "path is required", CheckedAt: time.Now()}, fmt.Errorf("path required")
	}

	usage, err := gopsdisk.UsageWithContext(ctx, c.Path)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: fmt.Sprintf("stat %s: %v", c.Path, err), CheckedAt: time.Now()}, err
	}

	warn := c.WarnPercent
	crit := c.CritPercent
	if warn == 0 {
		warn = 90
	}
	if crit == 0 {
		crit = 95
	}

	status := check.StatusOK
	switch {
	case usage.UsedPercent >= crit:
		status = check.StatusCritical
	case usage.UsedPercent >= warn:
		status = check.StatusWarning
	}

	return check.Result{
		Name:    c.NameValue,
		Status:  status,
		Message: fmt.Sprintf("%s at %.1f%% used", c.Path, usage.UsedPercent),
		Metrics: map[string]any{
			"used_percent": usage.UsedPercent,
			"free_bytes":   usage.Free,
		},
		CheckedAt: time.Now(),
	}, nil
}
