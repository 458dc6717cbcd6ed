// Package rotation verifies that a radio playout server has voice-tracking
// playlists scheduled for every week in a look-ahead window. Playlist
// filenames encode their air date as YYMMDD-HH; a week counts as covered
// when at least one filename falls into it.
package rotation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

// dateLayout matches a playlist filename such as 240101-06.plg once the
// extension is stripped and the configured UTC offset is appended.
const (
	dateLayout    = "060102-15-0700"
	fileExtension = ".plg"
)

type Checker struct {
	NameValue      string
	Host           string
	Port           int
	Username       string
	Password       string
	Service        string
	Timeout        time.Duration
	LookaheadWeeks int
	UTCOffset      string
}

func (c *Checker) Name() string {
	return c.NameValue
}

// Check runs one pass: connect, authenticate, fetch the listing, parse it
// and compare observed against expected ISO weeks. There are no retries;
// the session is closed whatever happens.
func (c *Checker) Check(ctx context.Context) (check.Result, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	offset := c.UTCOffset
	if offset == "" {
		offset = "+0000"
	}

	session, err := Dial(ctx, c.Host, c.Port, timeout)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: err.Error(), CheckedAt: time.Now()}, err
	}
	defer session.Close()

	ok, err := session.Authenticate(c.Username, c.Password)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "login exchange: " + err.Error(), CheckedAt: time.Now()}, err
	}
	if !ok {
		return check.Result{
			Name:      c.NameValue,
			Status:    check.StatusCritical,
			Message:   fmt.Sprintf("Login to %s Service was unsuccessful.", c.service()),
			CheckedAt: time.Now(),
		}, nil
	}

	raw, err := session.FetchFilenames(c.Username, c.Password)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: "fetch playlist listing: " + err.Error(), CheckedAt: time.Now()}, err
	}

	dates, err := ParseDates(raw, offset)
	if err != nil {
		return check.Result{Name: c.NameValue, Status: check.StatusUnknown, Message: err.Error(), CheckedAt: time.Now()}, err
	}

	status, message, covered := Evaluate(dates, time.Now(), c.LookaheadWeeks)
	return check.Result{
		Name:    c.NameValue,
		Status:  status,
		Message: message,
		Metrics: map[string]any{
			"playlists":      len(dates),
			"weeks_expected": c.LookaheadWeeks,
			"weeks_covered":  covered,
		},
		CheckedAt: time.Now(),
	}, nil
}

func (c *Checker) service() string {
	if c.Service != "" {
		return c.Service
	}
	return "Playout"
}

// ParseDates turns the raw listing into chronologically sorted timestamps.
// The terminator line is dropped; every other line must be a playlist
// filename. A malformed line fails the whole check rather than being
// skipped, since skipping would silently under-report missing weeks.
func ParseDates(raw, utcOffset string) ([]time.Time, error) {
	var dates []time.Time
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, listTerminator) {
			continue
		}
		name, found := strings.CutSuffix(line, fileExtension)
		if !found {
			return nil, fmt.Errorf("unexpected playlist filename %q", line)
		}
		t, err := time.Parse(dateLayout, name+utcOffset)
		if err != nil {
			return nil, fmt.Errorf("parse playlist filename %q: %w", line, err)
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Evaluate compares the ISO weeks present in dates against the weeks
// expected for now and the next lookaheadWeeks-1 weeks. It returns the
// status, the status message and the number of expected weeks covered.
// Evaluate is a pure function of its inputs.
func Evaluate(dates []time.Time, now time.Time, lookaheadWeeks int) (check.Status, string, int) {
	observed := make(map[int]bool, len(dates))
	for _, d := range dates {
		_, week := d.ISOWeek()
		observed[week] = true
	}

	covered := 0
	var missing []string
	for i := 0; i < lookaheadWeeks; i++ {
		_, week := now.AddDate(0, 0, 7*i).ISOWeek()
		if observed[week] {
			covered++
			continue
		}
		missing = append(missing, fmt.Sprintf("Week %d missing in rotation.", week))
	}

	if len(missing) > 0 {
		return check.StatusCritical, strings.Join(missing, " "), covered
	}
	return check.StatusOK, fmt.Sprintf("Rotation scheduled for all %d upcoming weeks.", lookaheadWeeks), covered
}
