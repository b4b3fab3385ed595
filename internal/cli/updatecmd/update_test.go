package updatecmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/runenv"
	"github.com/regenrek/metarbar/internal/update"
)

type fakeRegistry struct {
	latest string
	err    error
}

func (f fakeRegistry) LatestVersion(context.Context) (string, error) {
	return f.latest, f.err
}

func testContext(t *testing.T, version string, registry update.RegistryClient) (root.CommandContext, *bytes.Buffer) {
	t.Helper()
	t.Setenv(runenv.ConfigDirEnv, t.TempDir())
	var out bytes.Buffer
	return root.CommandContext{
		Context: context.Background(),
		Deps:    root.Dependencies{Version: version, Registry: registry},
		Out:     &out,
		ErrOut:  io.Discard,
	}, &out
}

func TestRunCheckUpdateAvailable(t *testing.T) {
	ctx, out := testContext(t, "1.0.0", fakeRegistry{latest: "v1.2.0"})
	if err := runCheck(ctx); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Update available: 1.2.0") {
		t.Fatalf("output = %q", got)
	}
	if !strings.Contains(got, "Run: ") {
		t.Fatalf("missing command hint: %q", got)
	}
}

func TestRunCheckUpToDate(t *testing.T) {
	ctx, out := testContext(t, "v1.2.0", fakeRegistry{latest: "1.2.0"})
	if err := runCheck(ctx); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunCheckDevelopment(t *testing.T) {
	ctx, out := testContext(t, "dev", fakeRegistry{latest: "1.2.0"})
	if err := runCheck(ctx); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}
	if !strings.Contains(out.String(), "development build") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunCheckRegistryError(t *testing.T) {
	ctx, _ := testContext(t, "1.0.0", fakeRegistry{err: errors.New("rate limited")})
	err := runCheck(ctx)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCheckJSONPersistsState(t *testing.T) {
	ctx, out := testContext(t, "1.0.0", fakeRegistry{latest: "2.0.0"})
	ctx.JSON = true
	if err := runCheck(ctx); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}
	var envelope struct {
		Ok   bool                `json:"ok"`
		Data output.UpdateStatus `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Ok || !envelope.Data.UpdateAvailable || envelope.Data.LatestVersion != "2.0.0" {
		t.Fatalf("status = %+v", envelope.Data)
	}

	path, err := update.DefaultStatePath()
	if err != nil {
		t.Fatalf("DefaultStatePath() error: %v", err)
	}
	state, err := update.FileStore{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if state.LatestVersion != "2.0.0" || state.LastCheckUnixMs == 0 {
		t.Fatalf("state = %+v", state)
	}
}

func TestRunRunNoopWhenCurrent(t *testing.T) {
	ctx, out := testContext(t, "1.2.0", fakeRegistry{latest: "1.2.0"})
	if err := runRun(ctx); err != nil {
		t.Fatalf("runRun() error: %v", err)
	}
	if !strings.Contains(out.String(), "already the latest") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunRunInstalls(t *testing.T) {
	origDetect, origInstall := detectFn, installFn
	t.Cleanup(func() { detectFn, installFn = origDetect, origInstall })

	detectFn = func(context.Context, string) (update.InstallSpec, error) {
		return update.InstallSpec{Channel: update.ChannelHomebrew, Executable: "/opt/homebrew/bin/metarbar"}, nil
	}
	installed := false
	installFn = func(_ context.Context, spec update.InstallSpec) error {
		if spec.Channel != update.ChannelHomebrew {
			t.Fatalf("spec = %+v", spec)
		}
		installed = true
		return nil
	}

	ctx, out := testContext(t, "1.0.0", fakeRegistry{latest: "2.0.0"})
	ctx.JSON = true
	if err := runRun(ctx); err != nil {
		t.Fatalf("runRun() error: %v", err)
	}
	if !installed {
		t.Fatalf("installer not invoked")
	}
	var envelope struct {
		Data output.ActionResult `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.Status != "updated" {
		t.Fatalf("result = %+v", envelope.Data)
	}
}

func TestRunRunUnknownChannel(t *testing.T) {
	origDetect := detectFn
	t.Cleanup(func() { detectFn = origDetect })
	detectFn = func(context.Context, string) (update.InstallSpec, error) {
		return update.InstallSpec{Channel: update.ChannelUnknown, Executable: "/tmp/metarbar"}, nil
	}

	ctx, _ := testContext(t, "1.0.0", fakeRegistry{latest: "2.0.0"})
	err := runRun(ctx)
	if err == nil || !strings.Contains(err.Error(), "update manually") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunRunInstallFailure(t *testing.T) {
	origDetect, origInstall := detectFn, installFn
	t.Cleanup(func() { detectFn, installFn = origDetect, origInstall })
	detectFn = func(context.Context, string) (update.InstallSpec, error) {
		return update.InstallSpec{Channel: update.ChannelGoInstall}, nil
	}
	installFn = func(context.Context, update.InstallSpec) error {
		return errors.New("go install exited 1")
	}

	ctx, _ := testContext(t, "1.0.0", fakeRegistry{latest: "2.0.0"})
	err := runRun(ctx)
	if err == nil || !strings.Contains(err.Error(), "update failed") {
		t.Fatalf("err = %v", err)
	}
}
