package rotation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	loginCommand   = "Login\n"
	listCommand    = "PlgFilenames\n\n"
	loginAccepted  = "234"
	credentialsAck = "OK"
	listTerminator = "What"
)

// ErrAuthFailed is returned when the server does not accept the login
// exchange before the listing is requested.
var ErrAuthFailed = errors.New("login was not accepted")

// Session is one connection to the playout server. A session serves a
// single check invocation and is torn down unconditionally afterwards.
type Session struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	authed  bool
}

func Dial(ctx context.Context, host string, port int, timeout time.Duration) (*Session, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("connect %s:%d: %w", host, port, err)
	}
	return &Session{conn: conn, reader: bufio.NewReader(conn), timeout: timeout}, nil
}

// Authenticate runs the two-step login exchange: the login command must be
// answered with the numeric accept code, the credentials with the literal
// acknowledgement. A timed-out read and a rejected login are
// indistinguishable on this protocol; both come back as false.
func (s *Session) Authenticate(username, password string) (bool, error) {
	if s.authed {
		return true, nil
	}
	if err := s.send(loginCommand); err != nil {
		return false, err
	}
	reply, err := s.readUntil(loginAccepted)
	if err != nil {
		return false, err
	}
	if !strings.Contains(reply, loginAccepted) {
		return false, nil
	}

	if err := s.send(username + "\n" + password + "\n"); err != nil {
		return false, err
	}
	reply, err = s.readUntil(credentialsAck)
	if err != nil {
		return false, err
	}
	if !strings.Contains(reply, credentialsAck) {
		return false, nil
	}
	s.authed = true
	return true, nil
}

// FetchFilenames requests the playlist listing and returns the raw
// multi-line reply up to the terminator line. It logs in first if
// Authenticate has not been called yet.
func (s *Session) FetchFilenames(username, password string) (string, error) {
	if !s.authed {
		ok, err := s.Authenticate(username, password)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrAuthFailed
		}
	}
	if err := s.send(listCommand); err != nil {
		return "", err
	}
	return s.readUntil(listTerminator)
}

func (s *Session) Close() error {
	return s.conn.Close()
}

func (s *Session) send(cmd string) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return err
	}
	if _, err := io.WriteString(s.conn, cmd); err != nil {
		return fmt.Errorf("send %q: %w", strings.TrimSpace(cmd), err)
	}
	return nil
}

// readUntil collects lines until one contains token or the per-call
// deadline passes. A timeout hands back whatever arrived, possibly
// nothing; callers treat a reply without the token like a rejection.
func (s *Session) readUntil(token string) (string, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		line, err := s.reader.ReadString('\n')
		b.WriteString(line)
		if strings.Contains(line, token) {
			return b.String(), nil
		}
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				return b.String(), nil
			}
			if errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return b.String(), err
		}
	}
}
