package nexus

import "go.uber.org/fx"

var Module = fx.Module("nexus",
	fx.Provide(NewOrchestrator),
)
