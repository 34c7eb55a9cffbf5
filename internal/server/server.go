package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tavolohq/tavolo/internal/audit"
	auditdomain "github.com/tavolohq/tavolo/internal/audit/domain"
	"github.com/tavolohq/tavolo/internal/config"
	"github.com/tavolohq/tavolo/internal/inventory"
	inventorydomain "github.com/tavolohq/tavolo/internal/inventory/domain"
	obsmetrics "github.com/tavolohq/tavolo/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	audit.Module,
	inventory.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestContextMiddleware())
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(AccessLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	inventorySvc inventorydomain.Service
	auditSvc     auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	InventorySvc inventorydomain.Service
	AuditSvc     auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		inventorySvc: p.InventorySvc,
		auditSvc:     p.AuditSvc,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", IdentityMiddleware())

	inv := api.Group("/inventory")
	inv.GET("", s.ListInventory)
	inv.GET("/low-stock", s.GetLowStockItems)
	inv.GET("/:id", s.GetInventoryItem)
	inv.GET("/:id/logs", s.ListInventoryLogs)

	inv.POST("", AdminRequired(), s.CreateInventoryItem)
	inv.DELETE("/:id", AdminRequired(), s.DeleteInventoryItem)
	inv.PATCH("/:id/increase", AdminRequired(), s.IncreaseStock)
	inv.PATCH("/:id/decrease", AdminRequired(), s.DecreaseStock)
	inv.PATCH("/:id/adjust", AdminRequired(), s.AdjustStock)

	api.GET("/audit-logs", AdminRequired(), s.ListAuditLogs)
}
