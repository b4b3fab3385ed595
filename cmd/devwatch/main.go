// Command devwatch reinstalls and relaunches metarbar whenever source
// files change. Development helper only:
//
//	go run ./cmd/devwatch -- panel --once
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/logging"
)

const stopGrace = 2 * time.Second

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fail(err)
	}
	if _, err := os.Stat("go.mod"); err != nil {
		fail(errors.New("run from the repo root (go.mod not found)"))
	}
	bin, err := installTarget()
	if err != nil {
		fail(err)
	}
	if err := watchAndRun(bin, opts); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "devwatch:", err)
	os.Exit(1)
}

type options struct {
	roots    []string
	debounce time.Duration
	args     []string
}

func parseArgs(argv []string) (options, error) {
	fs := flag.NewFlagSet("devwatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	watch := fs.String("watch", "cmd,internal", "comma-separated watch roots")
	debounce := fs.Duration("debounce", 250*time.Millisecond, "quiet period before a rebuild")
	if err := fs.Parse(argv); err != nil {
		return options{}, err
	}

	var roots []string
	for _, part := range strings.Split(*watch, ",") {
		if dir := strings.TrimSpace(part); dir != "" {
			roots = append(roots, dir)
		}
	}
	if len(roots) == 0 {
		return options{}, errors.New("no watch directories configured")
	}
	for _, dir := range roots {
		info, err := os.Stat(dir)
		if err != nil {
			return options{}, fmt.Errorf("watch dir %q: %w", dir, err)
		}
		if !info.IsDir() {
			return options{}, fmt.Errorf("watch dir %q: not a directory", dir)
		}
	}

	args := fs.Args()
	if len(args) == 0 {
		args = []string{"panel", "--once"}
	}
	return options{roots: roots, debounce: *debounce, args: args}, nil
}

func watchAndRun(bin string, opts options) error {
	ws, err := newWatchSet(opts.roots)
	if err != nil {
		return err
	}
	defer ws.close()

	proc := &child{}
	echo := logging.SanitizeCommand(strings.Join(append([]string{identity.CLIName}, opts.args...), " "))
	cycle := func() {
		proc.stop(stopGrace)
		if err := install(); err != nil {
			fmt.Fprintln(os.Stderr, "devwatch:", err)
			return
		}
		fmt.Fprintln(os.Stderr, "devwatch: run", echo)
		if err := proc.start(bin, opts.args); err != nil {
			fmt.Fprintln(os.Stderr, "devwatch:", err)
		}
	}
	cycle()

	reload := make(chan struct{}, 1)
	go ws.debounced(opts.debounce, reload)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-reload:
			cycle()
		case <-sig:
			proc.stop(stopGrace)
			return nil
		}
	}
}

// installTarget resolves where `go install` drops the binary.
func installTarget() (string, error) {
	gobin := strings.TrimSpace(os.Getenv("GOBIN"))
	if gobin == "" {
		out, err := exec.Command("go", "env", "GOPATH").Output()
		if err != nil {
			return "", fmt.Errorf("go env GOPATH: %w", err)
		}
		gobin = filepath.Join(strings.TrimSpace(string(out)), "bin")
	}
	bin := filepath.Join(gobin, identity.CLIName)
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	return bin, nil
}

func install() error {
	cmd := exec.Command("go", "install", "./cmd/metarbar")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// child is the currently running metarbar process.
type child struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

func (c *child) start(bin string, args []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	c.cmd = cmd
	c.done = done
	return nil
}

// stop interrupts the child and escalates to a kill after the grace
// period. The reaper goroutine owns Wait, so stop only watches done.
func (c *child) stop(grace time.Duration) {
	c.mu.Lock()
	cmd, done := c.cmd, c.done
	c.cmd, c.done = nil, nil
	c.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}
	if cmd.Process.Signal(os.Interrupt) != nil {
		_ = cmd.Process.Kill()
		return
	}
	select {
	case <-done:
	case <-time.After(grace):
		_ = cmd.Process.Kill()
	}
}

// watchSet is the fsnotify watcher plus the repo's ignore rules.
type watchSet struct {
	fs  *fsnotify.Watcher
	ign ignore.IgnoreParser
}

func newWatchSet(roots []string) (*watchSet, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ws := &watchSet{fs: fsw, ign: loadGitignore()}
	for _, root := range roots {
		if err := ws.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return ws, nil
}

func (ws *watchSet) close() {
	if err := ws.fs.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "devwatch:", err)
	}
}

func (ws *watchSet) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirName(d.Name()) {
			return filepath.SkipDir
		}
		if ws.ign != nil && path != root && ws.ign.MatchesPath(path) {
			return filepath.SkipDir
		}
		return ws.fs.Add(path)
	})
}

// relevant reports whether the event should trigger a rebuild, wiring
// newly created directories into the watch set as a side effect.
func (ws *watchSet) relevant(ev fsnotify.Event) bool {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = ws.addTree(ev.Name)
		}
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if editorJunk(filepath.Base(ev.Name)) {
		return false
	}
	return ws.ign == nil || !ws.ign.MatchesPath(ev.Name)
}

// debounced coalesces event bursts: each relevant event pushes the
// deadline out, and only a quiet gap of the full delay emits a reload.
func (ws *watchSet) debounced(delay time.Duration, out chan<- struct{}) {
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-ws.fs.Events:
			if !ok {
				return
			}
			if ws.relevant(ev) {
				pending = time.After(delay)
			}
		case <-pending:
			pending = nil
			select {
			case out <- struct{}{}:
			default:
			}
		case _, ok := <-ws.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// loadGitignore compiles the repo root .gitignore. A missing file
// yields a parser that matches nothing.
func loadGitignore() ignore.IgnoreParser {
	data, err := os.ReadFile(".gitignore")
	if err != nil {
		return ignore.CompileIgnoreLines()
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}

func skipDirName(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor", "bin", "dist", ".idea", ".vscode":
		return true
	}
	return false
}

func editorJunk(base string) bool {
	if strings.HasPrefix(base, ".#") || strings.HasSuffix(base, "~") {
		return true
	}
	return strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp")
}
