package policy

import (
	"context"
	"testing"
	"time"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
)

func result(status check.Status) check.Result {
	return check.Result{Name: "rotation", Status: status, Message: "msg", CheckedAt: time.Now()}
}

func TestCriticalProducesEvent(t *testing.T) {
	p := NewSimplePolicy(0, false)
	event, err := p.Evaluate(context.Background(), result(check.StatusCritical))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil {
		t.Fatalf("expected event")
	}
	if event.Status != "CRITICAL" {
		t.Fatalf("unexpected status: %s", event.Status)
	}
}

func TestFirstOKIsSilent(t *testing.T) {
	p := NewSimplePolicy(0, true)
	event, err := p.Evaluate(context.Background(), result(check.StatusOK))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestRecoveryEvent(t *testing.T) {
	p := NewSimplePolicy(0, true)
	if _, err := p.Evaluate(context.Background(), result(check.StatusCritical)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event, err := p.Evaluate(context.Background(), result(check.StatusOK))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil {
		t.Fatalf("expected recovery event")
	}
	if event.Summary != "rotation recovered" {
		t.Fatalf("unexpected summary: %q", event.Summary)
	}
}

func TestCooldownSuppresses(t *testing.T) {
	p := NewSimplePolicy(time.Hour, false)
	if event, _ := p.Evaluate(context.Background(), result(check.StatusCritical)); event == nil {
		t.Fatalf("expected first event")
	}
	if event, _ := p.Evaluate(context.Background(), result(check.StatusCritical)); event != nil {
		t.Fatalf("expected cooldown to suppress, got %+v", event)
	}
}
