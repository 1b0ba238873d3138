package alert

import (
	"github.com/claytondb/salestaxjar-sub000/internal/alert/repository"
	"github.com/claytondb/salestaxjar-sub000/internal/alert/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alert.engine",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewEngine),
	fx.Provide(service.NewService),
)
