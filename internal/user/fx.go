package user

import (
	"github.com/claytondb/salestaxjar-sub000/internal/user/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("user.store",
	fx.Provide(repository.NewRepository),
)
