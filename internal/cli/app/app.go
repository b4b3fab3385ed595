// Package app assembles the full CLI: embedded command spec, handler
// registrations, and the runner that executes them.
package app

import (
	"github.com/regenrek/metarbar/internal/cli/catalog"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/cli/spec"
)

// NewRunner builds the CLI runner from the embedded spec with every
// command handler registered.
func NewRunner(deps root.Dependencies) (*root.Runner, error) {
	specDoc, err := spec.LoadDefault()
	if err != nil {
		return nil, err
	}
	reg := root.NewRegistry()
	catalog.RegisterAll(reg)
	return root.NewRunner(specDoc, deps, reg)
}
