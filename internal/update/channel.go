package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Channel identifies the install/update channel.
type Channel string

const (
	ChannelUnknown   Channel = "unknown"
	ChannelHomebrew  Channel = "homebrew"
	ChannelGoInstall Channel = "go_install"
	ChannelGit       Channel = "git"
)

// InstallSpec captures channel-specific install metadata.
type InstallSpec struct {
	Channel    Channel
	Executable string
	GitRoot    string
}

// DetectInstall inspects the executable path to determine the install channel.
func DetectInstall(ctx context.Context, exePath string) (InstallSpec, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return InstallSpec{}, err
	}
	path := strings.TrimSpace(exePath)
	if path == "" {
		return InstallSpec{Channel: ChannelUnknown}, fmt.Errorf("executable path empty")
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	resolved = filepath.Clean(resolved)
	if isHomebrewPath(filepath.ToSlash(resolved)) {
		return InstallSpec{Channel: ChannelHomebrew, Executable: resolved}, nil
	}
	if isGoInstallPath(resolved) {
		return InstallSpec{Channel: ChannelGoInstall, Executable: resolved}, nil
	}
	gitRoot, ok := findGitRoot(ctx, filepath.Dir(resolved))
	if ok {
		return InstallSpec{Channel: ChannelGit, Executable: resolved, GitRoot: gitRoot}, nil
	}
	return InstallSpec{Channel: ChannelUnknown, Executable: resolved}, nil
}

func isHomebrewPath(path string) bool {
	return strings.Contains(path, "/Cellar/metarbar/") || strings.Contains(path, "/Homebrew/Cellar/metarbar/")
}

// isGoInstallPath reports whether the executable sits in a `go install`
// target directory (GOBIN, or bin/ under each GOPATH entry).
func isGoInstallPath(resolved string) bool {
	dir := filepath.Clean(filepath.Dir(resolved))
	for _, bin := range goInstallBinDirs() {
		if filepath.Clean(bin) == dir {
			return true
		}
	}
	return false
}

func goInstallBinDirs() []string {
	var dirs []string
	if gobin := strings.TrimSpace(os.Getenv("GOBIN")); gobin != "" {
		dirs = append(dirs, gobin)
	}
	if gopath := strings.TrimSpace(os.Getenv("GOPATH")); gopath != "" {
		for _, entry := range filepath.SplitList(gopath) {
			if entry = strings.TrimSpace(entry); entry != "" {
				dirs = append(dirs, filepath.Join(entry, "bin"))
			}
		}
		return dirs
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}
	return dirs
}

func findGitRoot(ctx context.Context, start string) (string, bool) {
	path := filepath.Clean(start)
	for {
		if err := ctx.Err(); err != nil {
			return "", false
		}
		gitPath := filepath.Join(path, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return path, true
			}
		}
		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}
	return "", false
}

// UpdateCommand returns a human-readable update command for the channel.
func UpdateCommand(spec InstallSpec) string {
	switch spec.Channel {
	case ChannelHomebrew:
		return "brew upgrade metarbar"
	case ChannelGoInstall:
		return "go install github.com/regenrek/metarbar/cmd/metarbar@latest"
	case ChannelGit:
		return "git pull --ff-only && go install ./cmd/metarbar"
	default:
		return "Update manually"
	}
}
