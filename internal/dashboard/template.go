package dashboard

import (
	"fmt"
	"os"

	"github.com/regenrek/metarbar/internal/atomicfile"
)

// TemplateKDL is the starter layout written by `metarbar init --dashboard`.
const TemplateKDL = `// MetarBar dashboard layout.
// Each station block claims a share of the panel rows.
panel {
    width 20
    rows 12

    station "KSFO" {
        lines 6
        title "SFO"
    }

    station "KLAX" {
        lines 6
        title "LAX"
    }
}
`

// WriteTemplate writes the starter layout to path.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := atomicfile.Save(path, []byte(TemplateKDL), 0o644); err != nil {
		return fmt.Errorf("write dashboard template: %w", err)
	}
	return nil
}
