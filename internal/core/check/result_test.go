package check

import "testing"

func TestExitCodes(t *testing.T) {
	cases := map[Status]int{
		StatusOK:       0,
		StatusWarning:  1,
		StatusCritical: 2,
		StatusUnknown:  3,
		Status("?"):    3,
	}
	for status, want := range cases {
		if got := status.ExitCode(); got != want {
			t.Fatalf("%s: got %d want %d", status, got, want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	r := Result{Status: StatusCritical, Message: "Week 2 missing in rotation."}
	if got := r.StatusLine(); got != "CRITICAL: Week 2 missing in rotation." {
		t.Fatalf("unexpected status line: %q", got)
	}
}
