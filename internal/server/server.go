package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/opencommune/fiscalis/internal/audit/domain"
	"github.com/opencommune/fiscalis/internal/config"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServerParam struct {
	fx.In

	Cfg          config.Config
	Log          *zap.Logger
	Engine       *gin.Engine
	DB           *gorm.DB
	NoticeSvc    noticedomain.Service
	TaxpayerSvc  taxpayerdomain.Service
	ReferenceSvc referencedomain.Service
	AuditSvc     auditdomain.Service
}

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *gin.Engine
	db     *gorm.DB

	noticeSvc    noticedomain.Service
	taxpayerSvc  taxpayerdomain.Service
	referenceSvc referencedomain.Service
	auditSvc     auditdomain.Service
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLoggingMiddleware(log))
	engine.Use(ErrorHandlingMiddleware())
	engine.Use(OperatorMiddleware())
	return engine
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:    p.Cfg,
		log:    p.Log.Named("http.server"),
		engine: p.Engine,
		db:     p.DB,

		noticeSvc:    p.NoticeSvc,
		taxpayerSvc:  p.TaxpayerSvc,
		referenceSvc: p.ReferenceSvc,
		auditSvc:     p.AuditSvc,
	}
}

// RegisterAPIRoutes mounts all HTTP endpoints.
func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api/v1")

	api.POST("/taxpayers", s.CreateTaxpayer)
	api.GET("/taxpayers", s.ListTaxpayers)
	api.GET("/taxpayers/:id", s.GetTaxpayer)
	api.POST("/taxpayers/:id/approve", s.ApproveTaxpayer)
	api.PUT("/taxpayers/:id/measures", s.DeclareMeasure)

	api.POST("/taxpayers/:id/notices/:year", s.CalculateNotice)
	api.POST("/notices/bulk-generate", s.BulkGenerateNotices)

	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.GET("/communes", s.ListCommunes)
	api.POST("/communes", s.CreateCommune)
	api.GET("/taxes", s.ListTaxes)
	api.POST("/taxes", s.CreateTax)

	api.GET("/audit-logs", s.ListAuditLogs)
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
