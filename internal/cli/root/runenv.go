package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/runenv"
)

type runEnvOptions struct {
	freshConfig  bool
	temporaryRun bool
}

func applyRunEnvFromFlags(cmd *cli.Command) (func(), error) {
	if cmd == nil {
		return func() {}, nil
	}
	opts := runEnvOptions{
		freshConfig:  cmd.Bool("fresh-config"),
		temporaryRun: cmd.Bool("temporary-run"),
	}
	if opts.temporaryRun {
		opts.freshConfig = true
	}
	return applyRunEnv(opts)
}

// applyRunEnv redirects the state directories for --fresh-config and
// --temporary-run. The returned cleanup restores the environment and,
// for temporary runs, removes the scratch tree.
func applyRunEnv(opts runEnvOptions) (func(), error) {
	if !opts.freshConfig && !opts.temporaryRun {
		return func() {}, nil
	}
	undo := captureEnv(runenv.RuntimeDirEnv, runenv.DataDirEnv, runenv.ConfigDirEnv, runenv.FreshConfigEnv)

	if opts.temporaryRun {
		root, err := os.MkdirTemp("", "metarbar-run-")
		if err != nil {
			undo.restore()
			return nil, fmt.Errorf("create temporary run dir: %w", err)
		}
		fail := func(err error) (func(), error) {
			_ = os.RemoveAll(root)
			undo.restore()
			return nil, err
		}
		configDir := filepath.Join(root, "config")
		overrides := map[string]string{
			runenv.RuntimeDirEnv:  filepath.Join(root, "runtime"),
			runenv.DataDirEnv:     filepath.Join(root, "data"),
			runenv.ConfigDirEnv:   configDir,
			runenv.FreshConfigEnv: "1",
		}
		dirs := []string{
			overrides[runenv.RuntimeDirEnv],
			overrides[runenv.DataDirEnv],
			filepath.Join(configDir, identity.GlobalLayoutsDir),
		}
		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fail(fmt.Errorf("create temporary dir: %w", err))
			}
		}
		for key, value := range overrides {
			if err := os.Setenv(key, value); err != nil {
				return fail(fmt.Errorf("set %s: %w", key, err))
			}
		}
		return func() {
			_ = os.RemoveAll(root)
			undo.restore()
		}, nil
	}

	if err := os.Setenv(runenv.FreshConfigEnv, "1"); err != nil {
		undo.restore()
		return nil, fmt.Errorf("set fresh config: %w", err)
	}
	return undo.restore, nil
}

// envUndo maps each mutated variable to its pre-run value; nil marks a
// variable that was unset.
type envUndo map[string]*string

func captureEnv(keys ...string) envUndo {
	undo := make(envUndo, len(keys))
	for _, key := range keys {
		undo[key] = nil
		if value, ok := os.LookupEnv(key); ok {
			undo[key] = &value
		}
	}
	return undo
}

func (u envUndo) restore() {
	for key, value := range u {
		if value == nil {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, *value)
		}
	}
}
