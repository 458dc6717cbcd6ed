// check_rotation verifies that the playout server has voice-tracking
// playlists for the next N weeks.
//
// Usage:
//
//	check_rotation [nagios|config|munin] [flags]
//
// The nagios mode (the default) prints one status line and exits with the
// usual plugin code (OK=0 WARNING=1 CRITICAL=2 UNKNOWN=3). The config and
// munin modes emit munin graph configuration and readings.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fractalcat/nagiosplugin"

	"github.com/jakeobsen/monitoring-plugins/internal/checkers/rotation"
	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
	"github.com/jakeobsen/monitoring-plugins/internal/munin"
	"github.com/jakeobsen/monitoring-plugins/internal/utils/logger"
)

func main() {
	fs := flag.NewFlagSet("check_rotation", flag.ExitOnError)
	username := fs.String("username", "", "playout server username")
	password := fs.String("password", "", "playout server password")
	host := fs.String("host", "127.0.0.1", "playout server host")
	port := fs.Int("port", 23, "playout server port")
	timeout := fs.Duration("timeout", 10*time.Second, "per-call network timeout")
	weeks := fs.Int("weeks", 4, "number of future weeks that must have playlists")
	utcOffset := fs.String("utcoffset", "+0000", "UTC offset of playlist timestamps, e.g. +0100")
	service := fs.String("service", "Playout", "service name used in the login failure message")
	logFile := fs.String("logfile", "", "log file; stdout when empty")
	logLevel := fs.String("loglevel", "info", "log level")

	mode := "nagios"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = args[0]
		args = args[1:]
	}
	_ = fs.Parse(args)

	log, closeLog, err := logger.Open(logger.Config{Level: *logLevel, File: *logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(check.StatusUnknown.ExitCode())
	}
	if closeLog != nil {
		defer closeLog()
	}

	checker := &rotation.Checker{
		NameValue:      "rotation",
		Host:           *host,
		Port:           *port,
		Username:       *username,
		Password:       *password,
		Service:        *service,
		Timeout:        *timeout,
		LookaheadWeeks: *weeks,
		UTCOffset:      *utcOffset,
	}

	switch mode {
	case "nagios":
		runNagios(checker, log)
	case "config":
		munin.WriteConfig(os.Stdout, munin.Graph{
			Title:    "Playlist rotation coverage",
			VLabel:   "weeks",
			Args:     "--base 1000 -l 0",
			Category: "radio",
		}, []munin.Field{
			{Name: "covered", Label: "weeks with playlists", Warning: fmt.Sprintf("%d:", *weeks), Critical: fmt.Sprintf("%d:", *weeks)},
		})
	case "munin":
		runMunin(checker, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q, expected nagios, config or munin\n", mode)
		os.Exit(check.StatusUnknown.ExitCode())
	}
}

func runNagios(checker *rotation.Checker, log *logger.Logger) {
	c := nagiosplugin.NewCheck()
	defer c.Finish()

	res, err := checker.Check(context.Background())
	if err != nil {
		log.Errorf("rotation check: %v", err)
	}

	switch res.Status {
	case check.StatusOK:
		c.AddResult(nagiosplugin.OK, res.Message)
	case check.StatusWarning:
		c.AddResult(nagiosplugin.WARNING, res.Message)
	case check.StatusCritical:
		c.AddResult(nagiosplugin.CRITICAL, res.Message)
	default:
		c.AddResult(nagiosplugin.UNKNOWN, res.Message)
	}

	if covered, ok := res.Metrics["weeks_covered"].(int); ok {
		_ = c.AddPerfDatum("weeks_covered", "", float64(covered))
	}
	if playlists, ok := res.Metrics["playlists"].(int); ok {
		_ = c.AddPerfDatum("playlists", "", float64(playlists))
	}
}

func runMunin(checker *rotation.Checker, log *logger.Logger) {
	res, err := checker.Check(context.Background())
	if err != nil {
		log.Errorf("rotation check: %v", err)
		os.Exit(1)
	}
	covered, ok := res.Metrics["weeks_covered"].(int)
	if !ok {
		log.Errorf("rotation check: %s", res.StatusLine())
		os.Exit(1)
	}
	munin.WriteValues(os.Stdout, []munin.Value{
		{Name: "covered", Value: covered},
	})
}
