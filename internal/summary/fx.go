package summary

import (
	"github.com/claytondb/salestaxjar-sub000/internal/summary/repository"
	"github.com/claytondb/salestaxjar-sub000/internal/summary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("summary.aggregator",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewAggregator),
)
