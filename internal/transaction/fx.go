package transaction

import (
	"github.com/claytondb/salestaxjar-sub000/internal/transaction/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.store",
	fx.Provide(repository.NewRepository),
)
