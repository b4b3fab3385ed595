package update

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// step is one command of an install plan, optionally pinned to a working
// directory.
type step struct {
	dir  string
	argv []string
}

// Installer executes the update commands for a detected channel.
type Installer struct {
	execCommand func(context.Context, string, ...string) *exec.Cmd
}

// NewInstaller builds an installer that runs real commands.
func NewInstaller() Installer {
	return Installer{execCommand: exec.CommandContext}
}

// Install upgrades the binary through the channel's own tooling.
func (i Installer) Install(ctx context.Context, spec InstallSpec) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	plan, err := installPlan(spec)
	if err != nil {
		return err
	}
	for _, st := range plan {
		if err := i.run(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func installPlan(spec InstallSpec) ([]step, error) {
	switch spec.Channel {
	case ChannelHomebrew:
		return []step{{argv: []string{"brew", "upgrade", "metarbar"}}}, nil
	case ChannelGoInstall:
		return []step{{argv: []string{"go", "install", "github.com/regenrek/metarbar/cmd/metarbar@latest"}}}, nil
	case ChannelGit:
		root, err := cleanRoot(spec.GitRoot)
		if err != nil {
			return nil, err
		}
		return []step{
			{dir: root, argv: []string{"git", "pull", "--ff-only"}},
			{dir: root, argv: []string{"go", "install", "./cmd/metarbar"}},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported update channel: %s", spec.Channel)
	}
}

func (i Installer) run(ctx context.Context, st step) error {
	execCommand := i.execCommand
	if execCommand == nil {
		execCommand = exec.CommandContext
	}
	cmd := execCommand(ctx, st.argv[0], st.argv[1:]...)
	if st.dir != "" {
		cmd.Dir = st.dir
	}
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(string(output)); msg != "" {
		return fmt.Errorf("update command failed: %w: %s", err, msg)
	}
	return fmt.Errorf("update command failed: %w", err)
}

// cleanRoot validates the checkout directory a git-channel update runs in.
func cleanRoot(root string) (string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return "", fmt.Errorf("update root is empty")
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("update root must be absolute")
	}
	info, err := os.Stat(cleaned)
	if err != nil {
		return "", fmt.Errorf("update root unavailable: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("update root is not a directory")
	}
	return cleaned, nil
}
