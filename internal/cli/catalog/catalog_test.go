package catalog

import "testing"

import "github.com/regenrek/metarbar/internal/cli/root"

func TestRegisterAllRegistersHandlers(t *testing.T) {
	reg := root.NewRegistry()
	RegisterAll(reg)

	want := []string{
		"panel",
		"fetch",
		"wrap",
		"stations",
		"init",
		"config.show",
		"config.path",
		"update.check",
		"update.run",
		"debug.paths",
		"version",
		"help",
	}
	for _, id := range want {
		if _, ok := reg.HandlerFor(id); !ok {
			t.Fatalf("missing handler %q", id)
		}
	}
}

func TestRegisterAllNilRegistry(t *testing.T) {
	RegisterAll(nil)
}
