package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/regenrek/metarbar/internal/atomicfile"
	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/runenv"
)

const stateFileName = "update-state.json"

// ErrStateDisabled marks runs that must not touch persisted update state
// (fresh-config runs, or a FileStore with no path).
var ErrStateDisabled = errors.New("update state disabled")

// Store loads and saves update-check state between runs.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// FileStore keeps the state in a JSON file. Path must be absolute.
type FileStore struct {
	Path string
}

// DefaultStatePath resolves where the state file lives: the config-dir
// override when set, otherwise ~/.config/<app>/.
func DefaultStatePath() (string, error) {
	if runenv.FreshConfigEnabled() {
		return "", ErrStateDisabled
	}
	if dir := runenv.ConfigDir(); dir != "" {
		return filepath.Join(dir, stateFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", identity.AppSlug, stateFileName), nil
}

// Load reads the stored state. A missing file is a zero State, not an
// error; a file that exists but does not parse is an error.
func (s FileStore) Load(ctx context.Context) (State, error) {
	path, err := s.statePath(ctx)
	if err != nil {
		return State{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read update state: %w", err)
	}
	if err := ctxErr(ctx); err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse update state: %w", err)
	}
	return state, nil
}

// Save writes the state atomically with owner-only permissions.
func (s FileStore) Save(ctx context.Context, state State) error {
	path, err := s.statePath(ctx)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal update state: %w", err)
	}
	payload = append(payload, '\n')
	if err := atomicfile.Save(path, payload, 0o600); err != nil {
		return fmt.Errorf("write update state: %w", err)
	}
	return nil
}

func (s FileStore) statePath(ctx context.Context) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}
	if s.Path == "" {
		return "", ErrStateDisabled
	}
	cleaned := filepath.Clean(s.Path)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("update state path must be absolute: %q", s.Path)
	}
	return cleaned, nil
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
