package root

import (
	"io"
	"net/http"
	"os"

	"github.com/regenrek/metarbar/internal/awc"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/runenv"
	"github.com/regenrek/metarbar/internal/update"
)

// Dependencies provides external services for CLI handlers.
type Dependencies struct {
	Version string
	AppName string
	WorkDir string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Source   func(cfg config.FetchSection) awc.Source
	Registry update.RegistryClient
}

// DefaultDependencies returns dependencies wired to production services.
func DefaultDependencies(version string) Dependencies {
	return Dependencies{
		Version:  version,
		AppName:  identity.CLIName,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Source:   NewSource,
		Registry: update.ReleaseClient{},
	}
}

// NewSource builds the production weather client from the fetch section.
func NewSource(cfg config.FetchSection) awc.Source {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = runenv.FetchTimeout()
	}
	return awc.Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  cfg.UserAgent,
		Hours:      cfg.Hours,
		MaxBytes:   cfg.MaxBytes(),
	}
}

// SourceFor returns a weather source for the fetch section, using the
// injected factory when one is set.
func (d Dependencies) SourceFor(cfg config.FetchSection) awc.Source {
	if d.Source != nil {
		return d.Source(cfg)
	}
	return NewSource(cfg)
}

// RegistryFor returns the release registry client, defaulting to GitHub.
func (d Dependencies) RegistryFor() update.RegistryClient {
	if d.Registry != nil {
		return d.Registry
	}
	return update.ReleaseClient{}
}
