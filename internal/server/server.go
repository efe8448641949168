// Package server is the HTTP surface: guest onboarding, payments, charges,
// on-demand reconciliation, and reminder previews.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roombox/roombox/internal/clock"
	"github.com/roombox/roombox/internal/config"
	guestdomain "github.com/roombox/roombox/internal/guest/domain"
	ledgerdomain "github.com/roombox/roombox/internal/ledger/domain"
)

type Server struct {
	cfg       config.Config
	db        *gorm.DB
	log       *zap.Logger
	guestSvc  guestdomain.Service
	ledgerSvc ledgerdomain.Service
	clk       clock.Clock
	limiter   *rateLimiter
}

type Params struct {
	fx.In

	Cfg       config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	GuestSvc  guestdomain.Service
	LedgerSvc ledgerdomain.Service
	Clock     clock.Clock
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:       p.Cfg,
		db:        p.DB,
		log:       p.Log.Named("server"),
		guestSvc:  p.GuestSvc,
		ledgerSvc: p.LedgerSvc,
		clk:       p.Clock,
		limiter:   newRateLimiter(p.Cfg.HTTPRateLimit, p.Cfg.HTTPRateWindow),
	}
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)

	api := engine.Group("/api", s.rateLimit())
	api.POST("/guests", s.OnboardGuest)
	api.GET("/guests", s.ListGuests)
	api.GET("/guests/:id", s.GetGuest)
	api.POST("/guests/:id/payments", s.RecordPayment)
	api.POST("/guests/:id/charges", s.AddCharge)
	api.POST("/guests/:id/vacate", s.VacateGuest)
	api.POST("/guests/:id/reconcile", s.ReconcileGuest)
	api.GET("/guests/:id/reminder", s.PreviewReminder)
	api.GET("/guests/:id/ledger", s.ListLedger)
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, s *Server, log *zap.Logger) {
	s.RegisterRoutes(engine)
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
