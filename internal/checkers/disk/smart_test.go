package disk

import (
	"context"
	"testing"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

const healthyOutput = `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-8-amd64] (local build)
Copyright (C) 2002-20, Bruce Allen, Christian Franke, www.smartmontools.org

=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: PASSED

SMART Attributes Data Structure revision number: 16
Vendor Specific SMART Attributes with Thresholds:
ID# ATTRIBUTE_NAME          FLAG     VALUE WORST THRESH TYPE      UPDATED  WHEN_FAILED RAW_VALUE
  5 Reallocated_Sector_Ct   0x0033   100   100   010    Pre-fail  Always       -       0
194 Temperature_Celsius     0x0022   064   052   000    Old_age   Always       -       36 (Min/Max 19/48)
197 Current_Pending_Sector  0x0012   100   100   000    Old_age   Always       -       0
`

func TestParseSmartReportHealthy(t *testing.T) {
	report, err := ParseSmartReport(healthyOutput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Healthy {
		t.Fatalf("expected healthy verdict")
	}
	if report.Temperature != 36 {
		t.Fatalf("unexpected temperature: %d", report.Temperature)
	}
	if report.ReallocatedSectors != 0 || report.PendingSectors != 0 {
		t.Fatalf("unexpected sector counts: %+v", report)
	}
}

func TestParseSmartReportFailed(t *testing.T) {
	raw := "SMART overall-health self-assessment test result: FAILED!\n"
	report, err := ParseSmartReport(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Healthy {
		t.Fatalf("expected failed verdict")
	}
}

func TestParseSmartReportNoVerdict(t *testing.T) {
	if _, err := ParseSmartReport("smartctl: command output without health section\n"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSmartEvaluate(t *testing.T) {
	c := &SmartChecker{NameValue: "smart", Device: "/dev/sda"}
	cases := []struct {
		name   string
		report SmartReport
		expect check.Status
	}{
		{"healthy", SmartReport{Healthy: true, Temperature: 36}, check.StatusOK},
		{"verdict failed", SmartReport{Healthy: false}, check.StatusCritical},
		{"pending sectors", SmartReport{Healthy: true, PendingSectors: 3}, check.StatusCritical},
		{"reallocated sectors", SmartReport{Healthy: true, ReallocatedSectors: 7}, check.StatusWarning},
		{"hot", SmartReport{Healthy: true, Temperature: 55}, check.StatusWarning},
		{"overheating", SmartReport{Healthy: true, Temperature: 63}, check.StatusCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := c.evaluate(tc.report)
			if status != tc.expect {
				t.Fatalf("unexpected status: %s", status)
			}
		})
	}
}

func TestUsageCheckerRequiresPath(t *testing.T) {
	c := &UsageChecker{NameValue: "disk"}
	res, err := c.Check(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.Status != check.StatusUnknown {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}
