package catalog

import (
	"github.com/regenrek/metarbar/internal/cli/configcmd"
	"github.com/regenrek/metarbar/internal/cli/debug"
	"github.com/regenrek/metarbar/internal/cli/fetchcmd"
	"github.com/regenrek/metarbar/internal/cli/help"
	"github.com/regenrek/metarbar/internal/cli/initcfg"
	"github.com/regenrek/metarbar/internal/cli/panelcmd"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/cli/stationscmd"
	"github.com/regenrek/metarbar/internal/cli/updatecmd"
	"github.com/regenrek/metarbar/internal/cli/version"
	"github.com/regenrek/metarbar/internal/cli/wrapcmd"
)

// RegisterAll registers all CLI commands.
func RegisterAll(reg *root.Registry) {
	if reg == nil {
		return
	}
	panelcmd.Register(reg)
	fetchcmd.Register(reg)
	wrapcmd.Register(reg)
	stationscmd.Register(reg)
	initcfg.Register(reg)
	configcmd.Register(reg)
	updatecmd.Register(reg)
	debug.Register(reg)
	version.Register(reg)
	help.Register(reg)
}
