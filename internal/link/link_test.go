package link

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestProbeCheckerUp(t *testing.T) {
	var gotMethod string
	checker := ProbeChecker{
		URL: "https://probe.test/health",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			gotMethod = req.Method
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}, nil
		})},
	}
	if err := checker.Check(context.Background()); err != nil {
		t.Fatalf("Check() err=%v", err)
	}
	if gotMethod != http.MethodHead {
		t.Fatalf("method = %q, want HEAD", gotMethod)
	}
}

func TestProbeCheckerDown(t *testing.T) {
	checker := ProbeChecker{
		URL: "https://probe.test/health",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("no route to host")
		})},
	}
	if err := checker.Check(context.Background()); err == nil {
		t.Fatalf("expected error for unreachable probe")
	}
	checker.HTTPClient = &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusBadGateway, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}, nil
	})}
	if err := checker.Check(context.Background()); err == nil {
		t.Fatalf("expected error for 5xx probe status")
	}
	if err := (ProbeChecker{}).Check(context.Background()); err == nil {
		t.Fatalf("expected error for empty probe url")
	}
}

type execCall struct {
	name string
	args []string
}

type execRecorder struct {
	calls []execCall
	fail  bool
}

func (r *execRecorder) cmd(ctx context.Context, name string, args ...string) *exec.Cmd {
	r.calls = append(r.calls, execCall{name: name, args: append([]string(nil), args...)})
	if r.fail {
		return exec.CommandContext(ctx, "sh", "-c", "echo boom && exit 1")
	}
	return exec.CommandContext(ctx, "sh", "-c", "exit 0")
}

func TestCommandConnectorSplitsCommand(t *testing.T) {
	recorder := &execRecorder{}
	connector := CommandConnector{Command: `nmcli connection up "Home Net"`, execCommand: recorder.cmd}
	if err := connector.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() err=%v", err)
	}
	if len(recorder.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(recorder.calls))
	}
	call := recorder.calls[0]
	if call.name != "nmcli" {
		t.Fatalf("name = %q", call.name)
	}
	want := []string{"connection", "up", "Home Net"}
	if len(call.args) != len(want) {
		t.Fatalf("args = %v, want %v", call.args, want)
	}
	for i := range want {
		if call.args[i] != want[i] {
			t.Fatalf("args = %v, want %v", call.args, want)
		}
	}
}

func TestCommandConnectorErrors(t *testing.T) {
	connector := CommandConnector{Command: ""}
	if err := connector.Connect(context.Background()); err == nil {
		t.Fatalf("expected error for empty command")
	}
	connector = CommandConnector{Command: `bad "quote`}
	if err := connector.Connect(context.Background()); err == nil {
		t.Fatalf("expected error for unbalanced quote")
	}
	recorder := &execRecorder{fail: true}
	connector = CommandConnector{Command: "wifi-up", execCommand: recorder.cmd}
	err := connector.Connect(context.Background())
	if err == nil {
		t.Fatalf("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want captured output", err)
	}
}

type fakeChecker struct {
	errs  []error
	calls int
}

func (c *fakeChecker) Check(ctx context.Context) error {
	idx := c.calls
	c.calls++
	if idx >= len(c.errs) {
		return nil
	}
	return c.errs[idx]
}

type fakeConnector struct {
	err   error
	calls int
}

func (c *fakeConnector) Connect(ctx context.Context) error {
	c.calls++
	return c.err
}

func TestSupervisorEnsureAlreadyUp(t *testing.T) {
	checker := &fakeChecker{}
	connector := &fakeConnector{}
	super := Supervisor{Checker: checker, Connector: connector, Delay: time.Millisecond}
	if err := super.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() err=%v", err)
	}
	if connector.calls != 0 {
		t.Fatalf("connector calls = %d, want 0", connector.calls)
	}
}

func TestSupervisorEnsureReconnects(t *testing.T) {
	down := errors.New("link down")
	checker := &fakeChecker{errs: []error{down, down}}
	connector := &fakeConnector{}
	super := Supervisor{Checker: checker, Connector: connector, Delay: time.Millisecond, MaxAttempts: 3}
	if err := super.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() err=%v", err)
	}
	if connector.calls != 2 {
		t.Fatalf("connector calls = %d, want 2", connector.calls)
	}
	if checker.calls != 3 {
		t.Fatalf("checker calls = %d, want 3", checker.calls)
	}
}

func TestSupervisorEnsureGivesUp(t *testing.T) {
	down := errors.New("link down")
	checker := &fakeChecker{errs: []error{down, down, down, down}}
	connector := &fakeConnector{}
	super := Supervisor{Checker: checker, Connector: connector, Delay: time.Millisecond, MaxAttempts: 3}
	err := super.Ensure(context.Background())
	var downErr *DownError
	if !errors.As(err, &downErr) {
		t.Fatalf("err=%v, want *DownError", err)
	}
	if downErr.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", downErr.Attempts)
	}
	if !errors.Is(err, down) {
		t.Fatalf("expected wrapped last error, got %v", err)
	}
}

func TestSupervisorEnsureContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	down := errors.New("link down")
	checker := &fakeChecker{errs: []error{down, down, down}}
	super := Supervisor{Checker: checker, Connector: &fakeConnector{}, Delay: time.Minute, MaxAttempts: 3}
	if err := super.Ensure(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Ensure() err=%v, want context.Canceled", err)
	}
}

func TestSupervisorNilCollaborators(t *testing.T) {
	super := Supervisor{Delay: time.Millisecond}
	if err := super.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() err=%v", err)
	}
}
