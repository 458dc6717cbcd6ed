package check

import "time"

type Status string

// The four Nagios plugin levels. String values appear verbatim in the
// status line, exit codes follow the usual plugin convention.
const (
	StatusOK       Status = "OK"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
	StatusUnknown  Status = "UNKNOWN"
)

func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusWarning:
		return 1
	case StatusCritical:
		return 2
	default:
		return 3
	}
}

type Result struct {
	Name      string
	Type      string
	Status    Status
	Message   string
	Metrics   map[string]any
	CheckedAt time.Time
}

// StatusLine renders the result the way monitoring frontends expect it.
func (r Result) StatusLine() string {
	return string(r.Status) + ": " + r.Message
}
