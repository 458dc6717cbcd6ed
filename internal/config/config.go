package config

import "time"

type Config struct {
	Checks   []CheckConfig   `yaml:"checks" mapstructure:"checks"`
	Policies []PolicyConfig  `yaml:"policies" mapstructure:"policies"`
	Channels []ChannelConfig `yaml:"channels" mapstructure:"channels"`
	Routes   []RouteConfig   `yaml:"routes" mapstructure:"routes"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
	Notify   NotifyConfig    `yaml:"notify" mapstructure:"notify"`
}

func DefaultConfig() Config {
	return Config{}
}

type CheckConfig struct {
	Type     string        `yaml:"type" mapstructure:"type" envconfig:"CHECK_TYPE"`
	Name     string        `yaml:"name" mapstructure:"name" envconfig:"CHECK_NAME"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval" envconfig:"CHECK_INTERVAL"`
	Schedule string        `yaml:"schedule" mapstructure:"schedule" envconfig:"CHECK_SCHEDULE"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" envconfig:"CHECK_TIMEOUT"`

	// rotation
	Host           string `yaml:"host" mapstructure:"host" envconfig:"CHECK_HOST"`
	Port           int    `yaml:"port" mapstructure:"port" envconfig:"CHECK_PORT"`
	Username       string `yaml:"username" mapstructure:"username" envconfig:"CHECK_USERNAME"`
	Password       string `yaml:"password" mapstructure:"password" envconfig:"CHECK_PASSWORD"`
	Service        string `yaml:"service" mapstructure:"service" envconfig:"CHECK_SERVICE"`
	LookaheadWeeks int    `yaml:"lookahead_weeks" mapstructure:"lookahead_weeks" envconfig:"CHECK_LOOKAHEAD_WEEKS"`
	UTCOffset      string `yaml:"utc_offset" mapstructure:"utc_offset" envconfig:"CHECK_UTC_OFFSET"`

	// tempager
	Address  string  `yaml:"address" mapstructure:"address" envconfig:"CHECK_ADDRESS"`
	WarnTemp float64 `yaml:"warn_temp" mapstructure:"warn_temp" envconfig:"CHECK_WARN_TEMP"`
	CritTemp float64 `yaml:"crit_temp" mapstructure:"crit_temp" envconfig:"CHECK_CRIT_TEMP"`

	// smart / disk_usage
	Device      string  `yaml:"device" mapstructure:"device" envconfig:"CHECK_DEVICE"`
	Path        string  `yaml:"path" mapstructure:"path" envconfig:"CHECK_PATH"`
	WarnPercent float64 `yaml:"warn_percent" mapstructure:"warn_percent" envconfig:"CHECK_WARN_PERCENT"`
	CritPercent float64 `yaml:"crit_percent" mapstructure:"crit_percent" envconfig:"CHECK_CRIT_PERCENT"`

	// http
	URL          string `yaml:"url" mapstructure:"url" envconfig:"CHECK_URL"`
	ExpectStatus int    `yaml:"expect_status" mapstructure:"expect_status" envconfig:"CHECK_EXPECT_STATUS"`
	BodyContains string `yaml:"body_contains" mapstructure:"body_contains" envconfig:"CHECK_BODY_CONTAINS"`
}

type PolicyConfig struct {
	Name             string        `yaml:"name" mapstructure:"name" envconfig:"POLICY_NAME"`
	Cooldown         time.Duration `yaml:"cooldown" mapstructure:"cooldown" envconfig:"POLICY_COOLDOWN"`
	NotifyOnRecovery bool          `yaml:"notify_on_recovery" mapstructure:"notify_on_recovery" envconfig:"POLICY_NOTIFY_ON_RECOVERY"`
}

type ChannelConfig struct {
	Type              string        `yaml:"type" mapstructure:"type" envconfig:"CHANNEL_TYPE"`
	Name              string        `yaml:"name" mapstructure:"name" envconfig:"CHANNEL_NAME"`
	URL               string        `yaml:"url" mapstructure:"url" envconfig:"CHANNEL_URL"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout" envconfig:"CHANNEL_TIMEOUT"`
	SMTPHost          string        `yaml:"smtp_host" mapstructure:"smtp_host" envconfig:"CHANNEL_SMTP_HOST"`
	SMTPPort          int           `yaml:"smtp_port" mapstructure:"smtp_port" envconfig:"CHANNEL_SMTP_PORT"`
	SMTPUsername      string        `yaml:"smtp_username" mapstructure:"smtp_username" envconfig:"CHANNEL_SMTP_USERNAME"`
	SMTPPassword      string        `yaml:"smtp_password" mapstructure:"smtp_password" envconfig:"CHANNEL_SMTP_PASSWORD"`
	SMTPFrom          string        `yaml:"smtp_from" mapstructure:"smtp_from" envconfig:"CHANNEL_SMTP_FROM"`
	SMTPTo            []string      `yaml:"smtp_to" mapstructure:"smtp_to" envconfig:"CHANNEL_SMTP_TO"`
	SMTPSubject       string        `yaml:"smtp_subject" mapstructure:"smtp_subject" envconfig:"CHANNEL_SMTP_SUBJECT"`
	SMTPImplicitTLS   bool          `yaml:"smtp_implicit_tls" mapstructure:"smtp_implicit_tls" envconfig:"CHANNEL_SMTP_IMPLICIT_TLS"`
	SMTPSkipVerifyTLS bool          `yaml:"smtp_skip_verify" mapstructure:"smtp_skip_verify" envconfig:"CHANNEL_SMTP_SKIP_VERIFY"`
}

type RouteConfig struct {
	Match RouteMatch `yaml:"match" mapstructure:"match"`
	To    []string   `yaml:"to" mapstructure:"to" envconfig:"ROUTE_TO"`
}

type RouteMatch struct {
	Name   string `yaml:"name" mapstructure:"name" envconfig:"ROUTE_MATCH_NAME"`
	Type   string `yaml:"type" mapstructure:"type" envconfig:"ROUTE_MATCH_TYPE"`
	Status string `yaml:"status" mapstructure:"status" envconfig:"ROUTE_MATCH_STATUS"`
}

type NotifyConfig struct {
	StopOnFail bool `yaml:"stop_on_fail" mapstructure:"stop_on_fail" envconfig:"NOTIFY_STOP_ON_FAIL"`
	RunOnce    bool `yaml:"run_once" mapstructure:"run_once" envconfig:"NOTIFY_RUN_ONCE"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" mapstructure:"format" envconfig:"LOG_FORMAT"`
	File   string `yaml:"file" mapstructure:"file" envconfig:"LOG_FILE"`
}
