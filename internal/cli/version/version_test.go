package version

import (
	"bytes"
	"testing"

	"github.com/regenrek/metarbar/internal/cli/root"
)

func TestRegisterBindsVersionHandler(t *testing.T) {
	reg := root.NewRegistry()
	Register(reg)
	if _, ok := reg.HandlerFor("version"); !ok {
		t.Fatal("version handler not registered")
	}
}

func TestRunVersionPrintsNameAndVersion(t *testing.T) {
	// One line, same shape as --version, so scripts can grep either.
	for _, version := range []string{"1.2.3", "dev"} {
		var out bytes.Buffer
		ctx := root.CommandContext{
			Deps: root.Dependencies{Version: version},
			Out:  &out,
		}
		if err := runVersion(ctx); err != nil {
			t.Fatalf("runVersion(%s) error: %v", version, err)
		}
		if want := "metarbar " + version + "\n"; out.String() != want {
			t.Fatalf("output = %q, want %q", out.String(), want)
		}
	}
}
