// Package link keeps the network path to the weather endpoint alive.
package link

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/regenrek/metarbar/internal/logging"
)

// Checker reports whether the network link is usable.
type Checker interface {
	Check(ctx context.Context) error
}

// Connector brings the network link up.
type Connector interface {
	Connect(ctx context.Context) error
}

// DownError is returned when the link stays down after all connect attempts.
type DownError struct {
	Attempts int
	Last     error
}

func (e *DownError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("link down after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("link down after %d attempts: %v", e.Attempts, e.Last)
}

func (e *DownError) Unwrap() error { return e.Last }

// NopChecker treats the link as always up.
type NopChecker struct{}

func (NopChecker) Check(ctx context.Context) error { return nil }

// NopConnector does nothing; useful when the host manages the link itself.
type NopConnector struct{}

func (NopConnector) Connect(ctx context.Context) error { return nil }

// ProbeChecker verifies the link with a HEAD request against a probe URL.
type ProbeChecker struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Check implements Checker.
func (c ProbeChecker) Check(ctx context.Context) (err error) {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("link: probe url is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.URL, nil)
	if err != nil {
		return fmt.Errorf("link probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("link probe: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("link probe close: %w", cerr)
		}
	}()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("link probe status %d", resp.StatusCode)
	}
	return nil
}

// CommandConnector runs a user-configured command to bring the link up,
// for example `nmcli connection up HomeNet`.
type CommandConnector struct {
	Command string

	execCommand func(context.Context, string, ...string) *exec.Cmd
}

// NewCommandConnector builds a connector for the given command line.
func NewCommandConnector(command string) CommandConnector {
	return CommandConnector{Command: command, execCommand: exec.CommandContext}
}

// Connect implements Connector.
func (c CommandConnector) Connect(ctx context.Context) error {
	words, err := shellquote.Split(c.Command)
	if err != nil {
		return fmt.Errorf("link connect command: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("link: connect command is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	execCommand := c.execCommand
	if execCommand == nil {
		execCommand = exec.CommandContext
	}
	// Connect commands often carry wifi passphrases; never log them raw.
	slog.Info("link: connecting", "command", logging.SanitizeCommand(c.Command))
	cmd := execCommand(ctx, words[0], words[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("link connect %q: %w: %s", words[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
