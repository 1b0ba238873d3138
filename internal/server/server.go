package server

import (
	"context"
	"net/http"
	"time"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	"github.com/claytondb/salestaxjar-sub000/internal/nexus"
	"github.com/claytondb/salestaxjar-sub000/internal/observability"
	obsmiddleware "github.com/claytondb/salestaxjar-sub000/internal/observability/logger"
	obsmetrics "github.com/claytondb/salestaxjar-sub000/internal/observability/metrics"
	obstracing "github.com/claytondb/salestaxjar-sub000/internal/observability/tracing"
	thresholddomain "github.com/claytondb/salestaxjar-sub000/internal/threshold/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(obsCfg, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	orchestrator nexus.Orchestrator
	alertSvc     alertdomain.Service
	thresholds   thresholddomain.Registry
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Orchestrator nexus.Orchestrator
	AlertSvc     alertdomain.Service
	Thresholds   thresholddomain.Registry
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		orchestrator: p.Orchestrator,
		alertSvc:     p.AlertSvc,
		thresholds:   p.Thresholds,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/imports/completed", s.ImportCompleted)

	v1.GET("/users/:user_id/alerts", s.ListAlerts)
	v1.POST("/users/:user_id/alerts/read", s.MarkAlertsRead)

	v1.GET("/thresholds", s.ListThresholds)
	v1.GET("/thresholds/:state_code", s.GetThreshold)
}
