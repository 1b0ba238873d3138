package migration

import (
	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	txdomain "github.com/claytondb/salestaxjar-sub000/internal/transaction/domain"
	userdomain "github.com/claytondb/salestaxjar-sub000/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres. Other dialects
		// (sqlite for local runs, mysql) fall back to schema sync.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&userdomain.User{},
				&txdomain.Transaction{},
				&summarydomain.SalesSummary{},
				&alertdomain.Alert{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
