package threshold

import (
	"github.com/claytondb/salestaxjar-sub000/internal/threshold/service"
	"go.uber.org/fx"
)

var Module = fx.Module("threshold.registry",
	fx.Provide(service.NewRegistry),
)
