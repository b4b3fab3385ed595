package configcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/runenv"
)

func testContext() (root.CommandContext, *bytes.Buffer) {
	var out bytes.Buffer
	return root.CommandContext{
		Context: context.Background(),
		Deps:    root.Dependencies{Version: "test"},
		Out:     &out,
		ErrOut:  io.Discard,
	}, &out
}

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	t.Setenv(runenv.ConfigDirEnv, t.TempDir())
	path, err := config.DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	return path
}

func TestRunShowText(t *testing.T) {
	path := writeConfig(t, &config.Config{Panel: config.PanelSection{Station: "KSFO", Cols: 20}})
	ctx, out := testContext()
	if err := runShow(ctx); err != nil {
		t.Fatalf("runShow() error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "# "+path) {
		t.Fatalf("missing path header in %q", got)
	}
	if !strings.Contains(got, "station: KSFO") || !strings.Contains(got, "cols: 20") {
		t.Fatalf("missing fields in %q", got)
	}
}

func TestRunShowMissingFile(t *testing.T) {
	t.Setenv(runenv.ConfigDirEnv, t.TempDir())
	ctx, out := testContext()
	if err := runShow(ctx); err != nil {
		t.Fatalf("runShow() error: %v", err)
	}
	if !strings.Contains(out.String(), "{}") {
		t.Fatalf("zero config should render empty: %q", out.String())
	}
}

func TestRunShowJSON(t *testing.T) {
	path := writeConfig(t, &config.Config{Panel: config.PanelSection{Station: "EDDM"}})
	ctx, out := testContext()
	ctx.JSON = true
	if err := runShow(ctx); err != nil {
		t.Fatalf("runShow() error: %v", err)
	}
	var envelope struct {
		Ok   bool              `json:"ok"`
		Data output.ConfigShow `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Ok || envelope.Data.Path != path {
		t.Fatalf("envelope = %+v", envelope)
	}
	cfg, ok := envelope.Data.Config.(map[string]any)
	if !ok {
		t.Fatalf("config payload = %T", envelope.Data.Config)
	}
	panelSection, ok := cfg["panel"].(map[string]any)
	if !ok || panelSection["station"] != "EDDM" {
		t.Fatalf("panel section = %+v", cfg["panel"])
	}
}

func TestRunPath(t *testing.T) {
	t.Setenv(runenv.ConfigDirEnv, t.TempDir())
	path, err := config.DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	ctx, out := testContext()
	if err := runPath(ctx); err != nil {
		t.Fatalf("runPath() error: %v", err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Fatalf("output = %q, want %q", out.String(), path)
	}
}

func TestRunPathFresh(t *testing.T) {
	t.Setenv(runenv.ConfigDirEnv, "")
	t.Setenv(runenv.FreshConfigEnv, "1")
	ctx, out := testContext()
	if err := runPath(ctx); err != nil {
		t.Fatalf("runPath() error: %v", err)
	}
	if !strings.Contains(out.String(), "disabled") {
		t.Fatalf("output = %q", out.String())
	}
}
