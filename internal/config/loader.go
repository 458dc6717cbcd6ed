package config

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Load reads the YAML config file, then overrides via .env and environment
// variables. Env overrides only touch the first item in each list; that is
// enough for single-check deployments driven purely by environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := ReadEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = []byte(os.ExpandEnv(string(data)))
	if err := v.ReadConfig(bytes.NewBuffer(data)); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if hasAnyEnv(checkEnvKeys()) {
		var ec CheckConfig
		if err := envconfig.Process("", &ec); err == nil {
			applyCheckOverrides(cfg, ec)
		}
	}
	if hasAnyEnv(policyEnvKeys()) {
		var pc PolicyConfig
		if err := envconfig.Process("", &pc); err == nil {
			applyPolicyOverrides(cfg, pc)
		}
	}
	if hasAnyEnv(channelEnvKeys()) {
		var cc ChannelConfig
		if err := envconfig.Process("", &cc); err == nil {
			applyChannelOverrides(cfg, cc)
		}
	}
	if hasAnyEnv(routeEnvKeys()) {
		var rc RouteMatch
		if err := envconfig.Process("", &rc); err == nil {
			applyRouteOverrides(cfg, rc)
		}
		if raw, ok := os.LookupEnv("ROUTE_TO"); ok {
			applyRouteToOverrides(cfg, raw)
		}
	}
	if hasAnyEnv(logEnvKeys()) {
		var lc LogConfig
		if err := envconfig.Process("", &lc); err == nil {
			applyLogOverrides(cfg, lc)
		}
	}
	if hasAnyEnv(notifyEnvKeys()) {
		var nc NotifyConfig
		if err := envconfig.Process("", &nc); err == nil {
			applyNotifyOverrides(cfg, nc)
		}
	}
}

func applyCheckOverrides(cfg *Config, ec CheckConfig) {
	if len(cfg.Checks) == 0 {
		cfg.Checks = []CheckConfig{{}}
	}
	c := &cfg.Checks[0]

	if envNonEmpty("CHECK_TYPE") {
		c.Type = ec.Type
	}
	if envNonEmpty("CHECK_NAME") {
		c.Name = ec.Name
	}
	if envNonEmpty("CHECK_INTERVAL") {
		c.Interval = ec.Interval
	}
	if envNonEmpty("CHECK_SCHEDULE") {
		c.Schedule = ec.Schedule
	}
	if envNonEmpty("CHECK_TIMEOUT") {
		c.Timeout = ec.Timeout
	}
	if envNonEmpty("CHECK_HOST") {
		c.Host = ec.Host
	}
	if envNonEmpty("CHECK_PORT") {
		c.Port = ec.Port
	}
	if envNonEmpty("CHECK_USERNAME") {
		c.Username = ec.Username
	}
	if envNonEmpty("CHECK_PASSWORD") {
		c.Password = ec.Password
	}
	if envNonEmpty("CHECK_SERVICE") {
		c.Service = ec.Service
	}
	if envNonEmpty("CHECK_LOOKAHEAD_WEEKS") {
		c.LookaheadWeeks = ec.LookaheadWeeks
	}
	if envNonEmpty("CHECK_UTC_OFFSET") {
		c.UTCOffset = ec.UTCOffset
	}
	if envNonEmpty("CHECK_ADDRESS") {
		c.Address = ec.Address
	}
	if envNonEmpty("CHECK_WARN_TEMP") {
		c.WarnTemp = ec.WarnTemp
	}
	if envNonEmpty("CHECK_CRIT_TEMP") {
		c.CritTemp = ec.CritTemp
	}
	if envNonEmpty("CHECK_DEVICE") {
		c.Device = ec.Device
	}
	if envNonEmpty("CHECK_PATH") {
		c.Path = ec.Path
	}
	if envNonEmpty("CHECK_WARN_PERCENT") {
		c.WarnPercent = ec.WarnPercent
	}
	if envNonEmpty("CHECK_CRIT_PERCENT") {
		c.CritPercent = ec.CritPercent
	}
	if envNonEmpty("CHECK_URL") {
		c.URL = ec.URL
	}
	if envNonEmpty("CHECK_EXPECT_STATUS") {
		c.ExpectStatus = ec.ExpectStatus
	}
	if envNonEmpty("CHECK_BODY_CONTAINS") {
		c.BodyContains = ec.BodyContains
	}
}

func applyPolicyOverrides(cfg *Config, pc PolicyConfig) {
	if len(cfg.Policies) == 0 {
		cfg.Policies = []PolicyConfig{{}}
	}
	p := &cfg.Policies[0]

	if envNonEmpty("POLICY_NAME") {
		p.Name = pc.Name
	}
	if envNonEmpty("POLICY_COOLDOWN") {
		p.Cooldown = pc.Cooldown
	}
	if envNonEmpty("POLICY_NOTIFY_ON_RECOVERY") {
		p.NotifyOnRecovery = pc.NotifyOnRecovery
	}
}

func applyChannelOverrides(cfg *Config, cc ChannelConfig) {
	if len(cfg.Channels) == 0 {
		cfg.Channels = []ChannelConfig{{}}
	}
	ch := &cfg.Channels[0]

	if envNonEmpty("CHANNEL_TYPE") {
		ch.Type = cc.Type
	}
	if envNonEmpty("CHANNEL_NAME") {
		ch.Name = cc.Name
	}
	if envNonEmpty("CHANNEL_URL") {
		ch.URL = cc.URL
	}
	if envNonEmpty("CHANNEL_TIMEOUT") {
		ch.Timeout = cc.Timeout
	}
	if envNonEmpty("CHANNEL_SMTP_HOST") {
		ch.SMTPHost = cc.SMTPHost
	}
	if envNonEmpty("CHANNEL_SMTP_PORT") {
		ch.SMTPPort = cc.SMTPPort
	}
	if envNonEmpty("CHANNEL_SMTP_USERNAME") {
		ch.SMTPUsername = cc.SMTPUsername
	}
	if envNonEmpty("CHANNEL_SMTP_PASSWORD") {
		ch.SMTPPassword = cc.SMTPPassword
	}
	if envNonEmpty("CHANNEL_SMTP_FROM") {
		ch.SMTPFrom = cc.SMTPFrom
	}
	if envNonEmpty("CHANNEL_SMTP_TO") {
		ch.SMTPTo = cc.SMTPTo
	}
	if envNonEmpty("CHANNEL_SMTP_SUBJECT") {
		ch.SMTPSubject = cc.SMTPSubject
	}
	if envNonEmpty("CHANNEL_SMTP_IMPLICIT_TLS") {
		ch.SMTPImplicitTLS = cc.SMTPImplicitTLS
	}
	if envNonEmpty("CHANNEL_SMTP_SKIP_VERIFY") {
		ch.SMTPSkipVerifyTLS = cc.SMTPSkipVerifyTLS
	}
}

func applyRouteOverrides(cfg *Config, rm RouteMatch) {
	if len(cfg.Routes) == 0 {
		cfg.Routes = []RouteConfig{{}}
	}
	r := &cfg.Routes[0]

	if envNonEmpty("ROUTE_MATCH_NAME") {
		r.Match.Name = rm.Name
	}
	if envNonEmpty("ROUTE_MATCH_STATUS") {
		r.Match.Status = rm.Status
	}
}

func applyRouteToOverrides(cfg *Config, raw string) {
	if len(cfg.Routes) == 0 {
		cfg.Routes = []RouteConfig{{}}
	}
	out := parseCSV(raw)
	if len(out) > 0 {
		cfg.Routes[0].To = out
	}
}

func applyLogOverrides(cfg *Config, lc LogConfig) {
	if envNonEmpty("LOG_LEVEL") {
		cfg.Log.Level = lc.Level
	}
	if envNonEmpty("LOG_FORMAT") {
		cfg.Log.Format = lc.Format
	}
	if envNonEmpty("LOG_FILE") {
		cfg.Log.File = lc.File
	}
}

func applyNotifyOverrides(cfg *Config, nc NotifyConfig) {
	if envNonEmpty("NOTIFY_STOP_ON_FAIL") {
		cfg.Notify.StopOnFail = nc.StopOnFail
	}
	if envNonEmpty("NOTIFY_RUN_ONCE") {
		cfg.Notify.RunOnce = nc.RunOnce
	}
}

func hasAnyEnv(keys []string) bool {
	for _, key := range keys {
		if envNonEmpty(key) {
			return true
		}
	}
	return false
}

func checkEnvKeys() []string {
	return []string{
		"CHECK_TYPE", "CHECK_NAME", "CHECK_INTERVAL", "CHECK_SCHEDULE", "CHECK_TIMEOUT",
		"CHECK_HOST", "CHECK_PORT", "CHECK_USERNAME", "CHECK_PASSWORD", "CHECK_SERVICE",
		"CHECK_LOOKAHEAD_WEEKS", "CHECK_UTC_OFFSET", "CHECK_ADDRESS", "CHECK_WARN_TEMP",
		"CHECK_CRIT_TEMP", "CHECK_DEVICE", "CHECK_PATH", "CHECK_WARN_PERCENT",
		"CHECK_CRIT_PERCENT", "CHECK_URL", "CHECK_EXPECT_STATUS", "CHECK_BODY_CONTAINS",
	}
}

func policyEnvKeys() []string {
	return []string{
		"POLICY_NAME", "POLICY_COOLDOWN", "POLICY_NOTIFY_ON_RECOVERY",
	}
}

func channelEnvKeys() []string {
	return []string{
		"CHANNEL_TYPE", "CHANNEL_NAME", "CHANNEL_URL", "CHANNEL_TIMEOUT",
		"CHANNEL_SMTP_HOST", "CHANNEL_SMTP_PORT", "CHANNEL_SMTP_USERNAME", "CHANNEL_SMTP_PASSWORD",
		"CHANNEL_SMTP_FROM", "CHANNEL_SMTP_TO", "CHANNEL_SMTP_SUBJECT",
		"CHANNEL_SMTP_IMPLICIT_TLS", "CHANNEL_SMTP_SKIP_VERIFY",
	}
}

func routeEnvKeys() []string {
	return []string{
		"ROUTE_MATCH_NAME", "ROUTE_MATCH_STATUS", "ROUTE_TO",
	}
}

func logEnvKeys() []string {
	return []string{
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	}
}

func notifyEnvKeys() []string {
	return []string{
		"NOTIFY_STOP_ON_FAIL", "NOTIFY_RUN_ONCE",
	}
}

func envNonEmpty(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
