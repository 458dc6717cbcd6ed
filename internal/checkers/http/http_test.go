package httpcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

func TestCheckOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := &Checker{NameValue: "http", URL: server.URL, Timeout: 2 * time.Second}
	res, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusOK {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}

func TestCheckServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checker := &Checker{NameValue: "http", URL: server.URL, Timeout: 2 * time.Second}
	res, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusCritical {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}

func TestCheckExpectStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := &Checker{NameValue: "http", URL: server.URL, Timeout: 2 * time.Second, ExpectStatus: http.StatusNotFound}
	res, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusOK {
		t.Fatalf("unexpected status: %s (%s)", res.Status, res.Message)
	}
}

func TestCheckBodyContains(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stream online"))
	}))
	defer server.Close()

	checker := &Checker{NameValue: "http", URL: server.URL, Timeout: 2 * time.Second, BodyContains: "offline"}
	res, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != check.StatusCritical {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}
