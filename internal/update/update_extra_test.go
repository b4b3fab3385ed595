package update

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regenrek/metarbar/internal/runenv"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func releaseClientFor(body string, status int, capture func(*http.Request)) ReleaseClient {
	return ReleaseClient{HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if capture != nil {
			capture(req)
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})}}
}

// cmdRecorder swaps real update commands for stand-ins so Install tests
// never touch brew, git, or the go toolchain.
type cmdRecorder struct {
	names []string
	fail  bool
}

func (r *cmdRecorder) cmd(ctx context.Context, name string, args ...string) *exec.Cmd {
	r.names = append(r.names, name)
	if r.fail {
		return exec.CommandContext(ctx, "sh", "-c", "echo boom && exit 1")
	}
	return exec.CommandContext(ctx, "sh", "-c", "exit 0")
}

func TestDetectInstallChannels(t *testing.T) {
	ctx := context.Background()

	t.Run("homebrew", func(t *testing.T) {
		spec, err := DetectInstall(ctx, "/usr/local/Cellar/metarbar/0.3.0/bin/metarbar")
		if err != nil {
			t.Fatalf("DetectInstall: %v", err)
		}
		if spec.Channel != ChannelHomebrew {
			t.Fatalf("channel = %s, want homebrew", spec.Channel)
		}
	})

	t.Run("gobin", func(t *testing.T) {
		gobin := t.TempDir()
		t.Setenv("GOBIN", gobin)
		spec, err := DetectInstall(ctx, filepath.Join(gobin, "metarbar"))
		if err != nil {
			t.Fatalf("DetectInstall: %v", err)
		}
		if spec.Channel != ChannelGoInstall {
			t.Fatalf("channel = %s, want go_install", spec.Channel)
		}
	})

	t.Run("gopath", func(t *testing.T) {
		gopath := t.TempDir()
		t.Setenv("GOBIN", "")
		t.Setenv("GOPATH", gopath)
		spec, err := DetectInstall(ctx, filepath.Join(gopath, "bin", "metarbar"))
		if err != nil {
			t.Fatalf("DetectInstall: %v", err)
		}
		if spec.Channel != ChannelGoInstall {
			t.Fatalf("channel = %s, want go_install", spec.Channel)
		}
	})

	t.Run("git checkout", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "metarbar")
		if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
			t.Fatalf("mkdir .git: %v", err)
		}
		bin := filepath.Join(root, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir bin: %v", err)
		}
		spec, err := DetectInstall(ctx, filepath.Join(bin, "metarbar"))
		if err != nil {
			t.Fatalf("DetectInstall: %v", err)
		}
		if spec.Channel != ChannelGit {
			t.Fatalf("channel = %s, want git", spec.Channel)
		}
		if spec.GitRoot != root {
			t.Fatalf("git root = %q, want %q", spec.GitRoot, root)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GOBIN", filepath.Join(dir, "elsewhere"))
		spec, err := DetectInstall(ctx, filepath.Join(dir, "metarbar"))
		if err != nil {
			t.Fatalf("DetectInstall: %v", err)
		}
		if spec.Channel != ChannelUnknown {
			t.Fatalf("channel = %s, want unknown", spec.Channel)
		}
	})
}

func TestDetectInstallRejectsBlankPath(t *testing.T) {
	if _, err := DetectInstall(context.Background(), "  "); err == nil {
		t.Fatal("blank executable path should error")
	}
}

func TestDetectInstallHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DetectInstall(ctx, "/usr/local/Cellar/metarbar/0.3.0/bin/metarbar")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestFindGitRootWorktreeFile(t *testing.T) {
	// Worktrees mark the root with a .git file, not a directory.
	tmp := t.TempDir()
	root := filepath.Join(tmp, "checkout")
	nested := filepath.Join(root, "cmd", "metarbar")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: ../main/.git/worktrees/checkout"), 0o644); err != nil {
		t.Fatalf("write .git: %v", err)
	}
	found, ok := findGitRoot(context.Background(), nested)
	if !ok || found != root {
		t.Fatalf("findGitRoot = %q, %v; want %q", found, ok, root)
	}

	if _, ok := findGitRoot(context.Background(), tmp); ok {
		t.Fatal("plain directory should have no git root")
	}
}

func TestUpdateCommandPerChannel(t *testing.T) {
	cases := map[Channel]string{
		ChannelHomebrew:  "brew upgrade metarbar",
		ChannelGoInstall: "go install github.com/regenrek/metarbar/cmd/metarbar@latest",
		ChannelGit:       "git pull --ff-only && go install ./cmd/metarbar",
		ChannelUnknown:   "Update manually",
	}
	for channel, want := range cases {
		if got := UpdateCommand(InstallSpec{Channel: channel}); got != want {
			t.Fatalf("UpdateCommand(%s) = %q, want %q", channel, got, want)
		}
	}
}

func TestReleaseClientLatestVersion(t *testing.T) {
	var ua, accept string
	client := releaseClientFor(`{"tag_name":"v0.3.0"}`, http.StatusOK, func(req *http.Request) {
		ua = req.Header.Get("User-Agent")
		accept = req.Header.Get("Accept")
	})
	version, err := client.LatestVersion(context.Background())
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if version != "v0.3.0" {
		t.Fatalf("version = %q", version)
	}
	if ua == "" {
		t.Fatal("requests should carry a user agent")
	}
	if accept != "application/vnd.github+json" {
		t.Fatalf("accept header = %q", accept)
	}
}

func TestReleaseClientFailures(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"server error", "", http.StatusInternalServerError},
		{"truncated body", "{", http.StatusOK},
		{"missing tag", `{"tag_name":""}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := releaseClientFor(tc.body, tc.status, nil)
			if _, err := client.LatestVersion(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestInstallerRunsChannelCommands(t *testing.T) {
	rec := &cmdRecorder{}
	installer := Installer{execCommand: rec.cmd}

	if err := installer.Install(context.Background(), InstallSpec{Channel: ChannelHomebrew}); err != nil {
		t.Fatalf("homebrew install: %v", err)
	}
	if len(rec.names) != 1 || rec.names[0] != "brew" {
		t.Fatalf("commands = %v, want [brew]", rec.names)
	}

	rec.names = nil
	if err := installer.Install(context.Background(), InstallSpec{Channel: ChannelGoInstall}); err != nil {
		t.Fatalf("go install: %v", err)
	}
	if len(rec.names) != 1 || rec.names[0] != "go" {
		t.Fatalf("commands = %v, want [go]", rec.names)
	}

	rec.names = nil
	root := t.TempDir()
	if err := installer.Install(context.Background(), InstallSpec{Channel: ChannelGit, GitRoot: root}); err != nil {
		t.Fatalf("git install: %v", err)
	}
	if len(rec.names) != 2 || rec.names[0] != "git" || rec.names[1] != "go" {
		t.Fatalf("commands = %v, want [git go]", rec.names)
	}

	if err := installer.Install(context.Background(), InstallSpec{Channel: ChannelUnknown}); err == nil {
		t.Fatal("unknown channel should refuse to install")
	}
}

func TestInstallerSurfacesCommandOutput(t *testing.T) {
	rec := &cmdRecorder{fail: true}
	installer := Installer{execCommand: rec.cmd}
	err := installer.Install(context.Background(), InstallSpec{Channel: ChannelHomebrew})
	if err == nil {
		t.Fatal("failing command should error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry the command output, got %v", err)
	}
}

func TestCleanRoot(t *testing.T) {
	if _, err := cleanRoot(""); err == nil {
		t.Fatal("empty root should error")
	}
	if _, err := cleanRoot("checkout/metarbar"); err == nil {
		t.Fatal("relative root should error")
	}
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := cleanRoot(file); err == nil {
		t.Fatal("file root should error")
	}
}

func TestNewInstallerHasDefaultExec(t *testing.T) {
	if NewInstaller().execCommand == nil {
		t.Fatal("default installer needs an exec function")
	}
	rec := &cmdRecorder{}
	installer := Installer{execCommand: rec.cmd}
	if err := installer.Install(nil, InstallSpec{Channel: ChannelHomebrew}); err != nil {
		t.Fatalf("nil context should default: %v", err)
	}
}

func TestDefaultStatePath(t *testing.T) {
	t.Run("fresh config disables state", func(t *testing.T) {
		t.Setenv(runenv.FreshConfigEnv, "1")
		if _, err := DefaultStatePath(); !errors.Is(err, ErrStateDisabled) {
			t.Fatalf("want ErrStateDisabled, got %v", err)
		}
	})

	t.Run("config dir override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(runenv.FreshConfigEnv, "")
		t.Setenv(runenv.ConfigDirEnv, dir)
		path, err := DefaultStatePath()
		if err != nil {
			t.Fatalf("DefaultStatePath: %v", err)
		}
		if path != filepath.Join(dir, "update-state.json") {
			t.Fatalf("path = %q", path)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(runenv.FreshConfigEnv, "")
		t.Setenv(runenv.ConfigDirEnv, "")
		t.Setenv("HOME", home)
		path, err := DefaultStatePath()
		if err != nil {
			t.Fatalf("DefaultStatePath: %v", err)
		}
		if want := filepath.Join(home, ".config", "metarbar", "update-state.json"); path != want {
			t.Fatalf("path = %q, want %q", path, want)
		}
	})
}

func TestFileStoreEdgeCases(t *testing.T) {
	dir := t.TempDir()

	missing := FileStore{Path: filepath.Join(dir, "never-written.json")}
	state, err := missing.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file should load empty, got %v", err)
	}
	if state != (State{}) {
		t.Fatalf("missing file state = %+v", state)
	}

	corrupt := FileStore{Path: filepath.Join(dir, "corrupt.json")}
	if err := os.WriteFile(corrupt.Path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := corrupt.Load(context.Background()); err == nil {
		t.Fatal("corrupt state should surface a parse error")
	}

	relative := FileStore{Path: "state.json"}
	if _, err := relative.Load(context.Background()); err == nil {
		t.Fatal("relative path should error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := FileStore{Path: filepath.Join(dir, "state.json")}
	if _, err := store.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("load should honor context, got %v", err)
	}
	if err := store.Save(ctx, State{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("save should honor context, got %v", err)
	}
}
