package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	diskcheck "github.com/jakeobsen/monitoring-plugins/internal/checkers/disk"
	httpcheck "github.com/jakeobsen/monitoring-plugins/internal/checkers/http"
	"github.com/jakeobsen/monitoring-plugins/internal/checkers/rotation"
	"github.com/jakeobsen/monitoring-plugins/internal/checkers/tempager"
	"github.com/jakeobsen/monitoring-plugins/internal/config"
	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
	"github.com/jakeobsen/monitoring-plugins/internal/core/notify"
	"github.com/jakeobsen/monitoring-plugins/internal/core/policy"
	"github.com/jakeobsen/monitoring-plugins/internal/notifiers/slack"
	"github.com/jakeobsen/monitoring-plugins/internal/notifiers/smtp"
	"github.com/jakeobsen/monitoring-plugins/internal/notifiers/webhook"
	"github.com/jakeobsen/monitoring-plugins/internal/utils/logger"
)

type scheduledCheck struct {
	Checker    check.Checker
	Interval   time.Duration
	Schedule   string
	Type       string
	StopOnFail bool
	RunOnce    bool
}

// Run is the daemon mode: every configured check runs on its interval or
// cron schedule, results funnel through the notify policy and breaches go
// out on the configured channels.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logger.Open(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if closeLog != nil {
		defer closeLog()
	}
	log.Infof("config loaded: %s", configPath)

	checks, err := buildChecks(cfg)
	if err != nil {
		return fmt.Errorf("build checks: %w", err)
	}
	log.Infof("checks ready: %d", len(checks))

	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		return fmt.Errorf("build notifiers: %w", err)
	}
	log.Infof("notifiers ready: %d", len(notifiers))

	pol := buildPolicy(cfg)

	results := make(chan check.Result)
	var wg sync.WaitGroup

	for _, sc := range checks {
		wg.Add(1)
		go func(sc scheduledCheck) {
			defer wg.Done()
			runCheckLoop(ctx, sc, results, log)
		}(sc)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		logResult(log, res)
		event, err := pol.Evaluate(ctx, res)
		if err != nil || event == nil {
			continue
		}
		event.Type = res.Type
		dispatch(ctx, cfg, *event, notifiers, log)
	}

	return nil
}

func buildChecks(cfg *config.Config) ([]scheduledCheck, error) {
	var checks []scheduledCheck
	for i, c := range cfg.Checks {
		var checker check.Checker
		switch c.Type {
		case "rotation":
			checker = &rotation.Checker{
				NameValue:      c.Name,
				Host:           c.Host,
				Port:           c.Port,
				Username:       c.Username,
				Password:       c.Password,
				Service:        c.Service,
				Timeout:        c.Timeout,
				LookaheadWeeks: c.LookaheadWeeks,
				UTCOffset:      c.UTCOffset,
			}
		case "tempager":
			checker = &tempager.Checker{
				NameValue: c.Name,
				Address:   c.Address,
				Timeout:   c.Timeout,
				WarnAt:    c.WarnTemp,
				CritAt:    c.CritTemp,
			}
		case "smart":
			checker = &diskcheck.SmartChecker{
				NameValue: c.Name,
				Device:    c.Device,
				Timeout:   c.Timeout,
				WarnTemp:  int(c.WarnTemp),
				CritTemp:  int(c.CritTemp),
			}
		case "disk_usage":
			checker = &diskcheck.UsageChecker{
				NameValue:   c.Name,
				Path:        c.Path,
				WarnPercent: c.WarnPercent,
				CritPercent: c.CritPercent,
			}
		case "http":
			timeout := c.Timeout
			if timeout == 0 {
				timeout = 5 * time.Second
			}
			checker = &httpcheck.Checker{
				NameValue:    c.Name,
				URL:          c.URL,
				Timeout:      timeout,
				ExpectStatus: c.ExpectStatus,
				BodyContains: c.BodyContains,
			}
		default:
			return nil, fmt.Errorf("unknown check type at index %d (name=%q): %q", i, c.Name, c.Type)
		}
		checks = append(checks, scheduledCheck{
			Checker:    checker,
			Interval:   c.Interval,
			Schedule:   c.Schedule,
			Type:       c.Type,
			StopOnFail: cfg.Notify.StopOnFail,
			RunOnce:    cfg.Notify.RunOnce,
		})
	}
	return checks, nil
}

func buildNotifiers(cfg *config.Config) (map[string]notify.Notifier, error) {
	notifiers := make(map[string]notify.Notifier)
	for i, c := range cfg.Channels {
		timeout := c.Timeout
		if timeout == 0 {
			timeout = 5 * time.Second
		}
		switch c.Type {
		case "webhook":
			notifiers[c.Name] = &webhook.Notifier{
				NameValue: c.Name,
				URL:       c.URL,
				Timeout:   timeout,
			}
		case "slack":
			notifiers[c.Name] = &slack.Notifier{
				NameValue: c.Name,
				URL:       c.URL,
				Timeout:   timeout,
			}
		case "smtp":
			notifiers[c.Name] = &smtp.Notifier{
				NameValue:     c.Name,
				Host:          c.SMTPHost,
				Port:          c.SMTPPort,
				Username:      c.SMTPUsername,
				Password:      c.SMTPPassword,
				From:          c.SMTPFrom,
				To:            c.SMTPTo,
				Subject:       c.SMTPSubject,
				Timeout:       timeout,
				ImplicitTLS:   c.SMTPImplicitTLS,
				SkipVerifyTLS: c.SMTPSkipVerifyTLS,
			}
		default:
			return nil, fmt.Errorf("unknown channel type at index %d (name=%q): %q", i, c.Name, c.Type)
		}
	}
	return notifiers, nil
}

func buildPolicy(cfg *config.Config) *policy.SimplePolicy {
	var polCfg config.PolicyConfig
	if len(cfg.Policies) > 0 {
		polCfg = cfg.Policies[0]
	}
	return policy.NewSimplePolicy(polCfg.Cooldown, polCfg.NotifyOnRecovery)
}

func runCheckLoop(ctx context.Context, sc scheduledCheck, results chan<- check.Result, log *logger.Logger) {
	status := runOnce(ctx, sc.Checker, results, sc.Type)
	if sc.RunOnce {
		return
	}
	if sc.StopOnFail && status != check.StatusOK {
		return
	}

	if sc.Schedule != "" {
		runCronLoop(ctx, sc, results, log)
		return
	}

	interval := sc.Interval
	if interval == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status = runOnce(ctx, sc.Checker, results, sc.Type)
			if sc.StopOnFail && status != check.StatusOK {
				return
			}
		}
	}
}

func runCronLoop(ctx context.Context, sc scheduledCheck, results chan<- check.Result, log *logger.Logger) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser))
	_, err := c.AddFunc(sc.Schedule, func() {
		runOnce(ctx, sc.Checker, results, sc.Type)
	})
	if err != nil {
		log.Errorf("invalid schedule for %q: %v", sc.Checker.Name(), err)
		return
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
}

func runOnce(ctx context.Context, checker check.Checker, results chan<- check.Result, checkType string) check.Status {
	if ctx.Err() != nil {
		return check.StatusUnknown
	}
	res, _ := checker.Check(ctx)
	res.Type = checkType
	if ctx.Err() == nil {
		results <- res
	}
	return res.Status
}

func dispatch(ctx context.Context, cfg *config.Config, event notify.Event, notifiers map[string]notify.Notifier, log *logger.Logger) {
	for _, route := range cfg.Routes {
		if !matchRoute(route.Match, event) {
			continue
		}
		for _, name := range route.To {
			n, ok := notifiers[name]
			if !ok {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if err := n.Send(ctx, event); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				log.Errorf("notify %s: %v", name, err)
				continue
			}
			log.Infof("notify %s: %s %s", name, event.Service, event.Status)
		}
	}
}

func matchRoute(match config.RouteMatch, event notify.Event) bool {
	if match.Name != "" && match.Name != event.Service {
		return false
	}
	if match.Type != "" && match.Type != event.Type {
		return false
	}
	if match.Status != "" && match.Status != event.Status {
		return false
	}
	return true
}

func logResult(log *logger.Logger, res check.Result) {
	switch res.Status {
	case check.StatusCritical:
		log.Errorf("result %s: %s", res.Name, res.Message)
	case check.StatusWarning:
		log.Warnf("result %s: %s", res.Name, res.Message)
	default:
		log.Infof("result %s: %s", res.Name, res.Message)
	}
}
