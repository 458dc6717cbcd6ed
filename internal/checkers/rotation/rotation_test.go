package rotation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

func TestParseDatesSorted(t *testing.T) {
	raw := "240108-06.plg\r\n231225-09.plg\r\n240101-06.plg\r\nWhat now?\r\n"
	dates, err := ParseDates(raw, "+0100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if dates[i].Before(dates[i-1]) {
			t.Fatalf("dates not sorted: %v before %v", dates[i], dates[i-1])
		}
	}
	want := time.Date(2023, 12, 25, 9, 0, 0, 0, time.FixedZone("", 3600))
	if !dates[0].Equal(want) {
		t.Fatalf("first date: got %v want %v", dates[0], want)
	}
}

func TestParseDatesMalformedIsFatal(t *testing.T) {
	for _, raw := range []string{
		"backup.tar\nWhat now?\n",
		"2401x1-06.plg\nWhat now?\n",
	} {
		if _, err := ParseDates(raw, "+0000"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseDatesOnlyTerminator(t *testing.T) {
	dates, err := ParseDates("What now?\n", "+0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected no dates, got %d", len(dates))
	}
}

func TestEvaluateAllWeeksPresent(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 6, 0, 0, 0, time.UTC),
	}
	status, _, covered := Evaluate(dates, now, 2)
	if status != check.StatusOK {
		t.Fatalf("unexpected status: %s", status)
	}
	if covered != 2 {
		t.Fatalf("unexpected covered count: %d", covered)
	}
}

func TestEvaluateMissingWeek(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC),
	}
	status, message, _ := Evaluate(dates, now, 2)
	if status != check.StatusCritical {
		t.Fatalf("unexpected status: %s", status)
	}
	if message != "Week 2 missing in rotation." {
		t.Fatalf("unexpected message: %q", message)
	}
}

func TestEvaluateEmptyListing(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	status, message, covered := Evaluate(nil, now, 2)
	if status != check.StatusCritical {
		t.Fatalf("unexpected status: %s", status)
	}
	want := "Week 1 missing in rotation. Week 2 missing in rotation."
	if message != want {
		t.Fatalf("unexpected message: got %q want %q", message, want)
	}
	if covered != 0 {
		t.Fatalf("unexpected covered count: %d", covered)
	}
}

func TestEvaluateZeroLookahead(t *testing.T) {
	status, _, _ := Evaluate(nil, time.Now(), 0)
	if status != check.StatusOK {
		t.Fatalf("unexpected status: %s", status)
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2024, 1, 9, 6, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC),
	}
	first, msg1, _ := Evaluate(dates, now, 2)
	second, msg2, _ := Evaluate(dates, now, 2)
	if first != second || msg1 != msg2 {
		t.Fatalf("evaluate not idempotent: %s/%s vs %s/%s", first, msg1, second, msg2)
	}
	if first != check.StatusOK {
		t.Fatalf("unexpected status: %s", first)
	}
}

// fakeServer speaks the playout line protocol for one connection and
// records every line the client sends.
type fakeServer struct {
	listener    net.Listener
	acceptLogin bool
	filenames   []string

	mu    sync.Mutex
	lines []string
}

func startFakeServer(t *testing.T, acceptLogin bool, filenames []string) *fakeServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fakeServer{listener: listener, acceptLogin: acceptLogin, filenames: filenames}
	go s.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return s
}

func (s *fakeServer) serve() {
	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	buf := make([]byte, 4096)
	pending := ""
	readLine := func() (string, bool) {
		for {
			if idx := strings.IndexByte(pending, '\n'); idx >= 0 {
				line := strings.TrimRight(pending[:idx], "\r")
				pending = pending[idx+1:]
				return line, true
			}
			n, err := conn.Read(buf)
			pending += string(buf[:n])
			if err != nil {
				return "", false
			}
		}
	}
	record := func(line string) {
		s.mu.Lock()
		s.lines = append(s.lines, line)
		s.mu.Unlock()
	}

	line, ok := readLine()
	if !ok {
		return
	}
	record(line)
	if line != "Login" {
		return
	}
	if !s.acceptLogin {
		fmt.Fprintf(conn, "000\r\n")
		// keep reading so further commands, if any, are recorded
		for {
			line, ok := readLine()
			if !ok {
				return
			}
			record(line)
		}
	}
	fmt.Fprintf(conn, "234\r\n")

	for i := 0; i < 2; i++ {
		line, ok = readLine()
		if !ok {
			return
		}
		record(line)
	}
	fmt.Fprintf(conn, "OK\r\n")

	for {
		line, ok = readLine()
		if !ok {
			return
		}
		if line == "" {
			continue
		}
		record(line)
		if line == "PlgFilenames" {
			break
		}
	}
	for _, name := range s.filenames {
		fmt.Fprintf(conn, "%s\r\n", name)
	}
	fmt.Fprintf(conn, "What now?\r\n")
}

func (s *fakeServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *fakeServer) checker(weeks int) *Checker {
	_, portStr, _ := net.SplitHostPort(s.listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return &Checker{
		NameValue:      "rotation",
		Host:           "127.0.0.1",
		Port:           port,
		Username:       "operator",
		Password:       "secret",
		Timeout:        2 * time.Second,
		LookaheadWeeks: weeks,
		UTCOffset:      "+0000",
	}
}

func TestCheckFullPass(t *testing.T) {
	now := time.Now()
	filenames := []string{
		now.Format("060102") + "-06.plg",
		now.AddDate(0, 0, 7).Format("060102") + "-06.plg",
	}
	server := startFakeServer(t, true, filenames)

	res, err := server.checker(2).Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusOK {
		t.Fatalf("unexpected result: %s %s", res.Status, res.Message)
	}
	if covered := res.Metrics["weeks_covered"]; covered != 2 {
		t.Fatalf("unexpected coverage: %v", covered)
	}
}

func TestCheckMissingWeek(t *testing.T) {
	now := time.Now()
	server := startFakeServer(t, true, []string{now.Format("060102") + "-06.plg"})

	res, err := server.checker(2).Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusCritical {
		t.Fatalf("unexpected result: %s %s", res.Status, res.Message)
	}
	_, week := now.AddDate(0, 0, 7).ISOWeek()
	want := fmt.Sprintf("Week %d missing in rotation.", week)
	if res.Message != want {
		t.Fatalf("unexpected message: got %q want %q", res.Message, want)
	}
}

func TestCheckLoginRejected(t *testing.T) {
	server := startFakeServer(t, false, nil)

	res, err := server.checker(2).Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusCritical {
		t.Fatalf("unexpected status: %s", res.Status)
	}
	if res.Message != "Login to Playout Service was unsuccessful." {
		t.Fatalf("unexpected message: %q", res.Message)
	}
	for _, line := range server.received() {
		if strings.Contains(line, "PlgFilenames") {
			t.Fatalf("listing requested after failed login")
		}
	}
}

func (s *fakeServer) dial(t *testing.T) *Session {
	t.Helper()
	_, portStr, _ := net.SplitHostPort(s.listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	session, err := Dial(context.Background(), "127.0.0.1", port, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestFetchFilenamesLogsInFirst(t *testing.T) {
	server := startFakeServer(t, true, []string{"240102-06.plg"})

	session := server.dial(t)
	raw, err := session.FetchFilenames("operator", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(raw, "240102-06.plg") {
		t.Fatalf("listing missing filename: %q", raw)
	}
	received := server.received()
	if len(received) == 0 || received[0] != "Login" {
		t.Fatalf("expected login exchange before listing, got %v", received)
	}
}

func TestFetchFilenamesLoginRejected(t *testing.T) {
	server := startFakeServer(t, false, nil)

	session := server.dial(t)
	if _, err := session.FetchFilenames("operator", "secret"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	for _, line := range server.received() {
		if strings.Contains(line, "PlgFilenames") {
			t.Fatalf("listing requested after failed login")
		}
	}
}

func TestCheckConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, portStr, _ := net.SplitHostPort(listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	_ = listener.Close()

	checker := &Checker{NameValue: "rotation", Host: "127.0.0.1", Port: port, Timeout: time.Second, LookaheadWeeks: 2}
	res, err := checker.Check(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.Status != check.StatusUnknown {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}

func TestCheckMalformedListing(t *testing.T) {
	server := startFakeServer(t, true, []string{"jingles.tar"})

	res, err := server.checker(2).Check(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.Status != check.StatusUnknown {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}
