// check_tempager is a munin plugin for the AVTECH TemPageR 4E temperature
// sensor. Run with the config argument it prints the munin graph
// configuration, otherwise it prints one tempN.value line per sensor.
//
// When logging to the munin log directory, add a logrotate snippet for the
// log file alongside the munin ruleset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/checkers/tempager"
	"github.com/jakeobsen/monitoring-plugins/internal/munin"
	"github.com/jakeobsen/monitoring-plugins/internal/utils/logger"
)

const graphTitle = "Server Room Temperatures"

func main() {
	fs := flag.NewFlagSet("check_tempager", flag.ExitOnError)
	sensor := fs.String("sensor", "", "sensor host or host:port")
	warning := fs.Float64("warning", 28, "warning threshold in degrees Celsius")
	critical := fs.Float64("critical", 30, "critical threshold in degrees Celsius")
	timeout := fs.Duration("timeout", 10*time.Second, "network timeout")
	logFile := fs.String("logfile", "", "log file; stderr when empty")
	logLevel := fs.String("loglevel", "info", "log level")

	mode := "values"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = args[0]
		args = args[1:]
	}
	_ = fs.Parse(args)

	logCfg := logger.Config{Level: *logLevel, File: *logFile, Output: os.Stderr}
	log, closeLog, err := logger.Open(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	checker := &tempager.Checker{
		NameValue: "tempager",
		Address:   *sensor,
		Timeout:   *timeout,
	}

	sensors, err := checker.Fetch(context.Background())
	if err != nil {
		log.Errorf("fetch sensor data: %v", err)
		os.Exit(2)
	}

	switch mode {
	case "config":
		fields := make([]munin.Field, 0, len(sensors))
		for i, s := range sensors {
			fields = append(fields, munin.Field{
				Name:     fmt.Sprintf("temp%d", i),
				Label:    s.Label,
				Warning:  fmt.Sprintf("%g", *warning),
				Critical: fmt.Sprintf("%g", *critical),
			})
		}
		munin.WriteConfig(os.Stdout, munin.Graph{
			Title:    graphTitle,
			VLabel:   "degrees Celsius",
			Args:     "--base 1000 -l 0",
			Category: "sensors",
		}, fields)
	default:
		values := make([]munin.Value, 0, len(sensors))
		for i, s := range sensors {
			values = append(values, munin.Value{Name: fmt.Sprintf("temp%d", i), Value: s.TempC})
		}
		munin.WriteValues(os.Stdout, values)
	}
}
