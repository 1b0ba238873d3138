package exposure

import (
	"github.com/claytondb/salestaxjar-sub000/internal/exposure/service"
	"go.uber.org/fx"
)

var Module = fx.Module("exposure.calculator",
	fx.Provide(service.NewCalculator),
)
