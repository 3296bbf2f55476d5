package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"github.com/hugohenrick/restaurante-pedidos/docs"
	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/controller"
	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/route"
	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/repository"
	"github.com/hugohenrick/restaurante-pedidos/internal/config"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/monitoring"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/notify"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/scheduler"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
	"github.com/hugohenrick/restaurante-pedidos/pkg/auth"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// App representa a aplicação e suas dependências
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	db        *database.PostgresDB
	router    *gin.Engine
	sink      *monitoring.BufferedSink
	publisher *monitoring.AMQPPublisher
	redis     *redis.Client
	scheduler *scheduler.Scheduler
}

// NewApp conecta as dependências externas e monta o router
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: log}

	db, err := database.NewPostgresDB(ctx, database.PostgresConfig{
		ConnString:      cfg.ConnectionString(),
		MaxConnections:  cfg.DBMaxConnections,
		MinConnections:  cfg.DBMinConnections,
		MaxConnLifetime: cfg.DBMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	app.db = db

	cal, err := calendar.NewBusinessCalendar(calendar.SystemClock{}, cfg.BusinessTimezone)
	if err != nil {
		app.Close()
		return nil, err
	}

	tieBreak, err := promotion.TieBreakByName(cfg.PromotionTieBreak)
	if err != nil {
		app.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecretKey, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		app.Close()
		return nil, err
	}

	var sink monitoring.Sink = monitoring.NopSink{}
	if cfg.AMQPURL != "" {
		publisher, err := monitoring.NewAMQPPublisher(cfg.AMQPURL, cfg.MonitoringExchange)
		if err != nil {
			// o coletor é opcional; sem ele os eventos são descartados
			log.Warn("monitoramento desativado", "error", err)
		} else {
			app.publisher = publisher
			app.sink = monitoring.NewBufferedSink(publisher, cfg.MonitoringBuffer, log)
			sink = app.sink
		}
	}

	var notifier notify.AccountNotifier = notify.NopNotifier{}
	if cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		notifier = notify.NewRedisNotifier(app.redis, log)
	}

	// Criar repositórios
	sequenceRepo := repository.NewSequenceRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	allocator := sequence.NewAllocator(sequenceRepo, db, cfg.SequenceMaxAttempts)

	deps := service.Dependencies{
		Transactor: db,
		Users:      repository.NewUserRepository(db),
		Menu:       repository.NewMenuRepository(db),
		Promotions: repository.NewPromotionRepository(db),
		Orders:     repository.NewOrderRepository(db),
		Accounts:   accountRepo,
		Allocator:  allocator,
		Ledger:     account.NewLedger(accountRepo, allocator),
		Engine:     promotion.NewEngine(tieBreak),
		Calendar:   cal,
		Sink:       sink,
		Notifier:   notifier,
		Logger:     log,
	}
	orderService := service.NewOrderService(deps)
	accountService := service.NewAccountService(deps)

	app.scheduler, err = scheduler.New(cal.Location(), log)
	if err != nil {
		app.Close()
		return nil, err
	}
	hour, minute, enabled, err := cfg.AutoCloseTime()
	if err != nil {
		app.Close()
		return nil, err
	}
	if enabled {
		if err := app.scheduler.ScheduleAutoClose(hour, minute, accountService); err != nil {
			app.Close()
			return nil, err
		}
	}

	app.router = newRouter(cfg, jwtService, db,
		controller.NewOrderController(orderService, log),
		controller.NewAccountController(accountService, log),
		controller.NewPromotionController(deps.Promotions, cal, log),
	)
	return app, nil
}

func newRouter(
	cfg *config.Config,
	jwtService *auth.JWTService,
	db controller.Pinger,
	orderController *controller.OrderController,
	accountController *controller.AccountController,
	promotionController *controller.PromotionController,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	docs.SwaggerInfo.BasePath = cfg.APIBasePath
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(cfg.APIBasePath)
	authMiddleware := auth.JWTAuthMiddleware(jwtService)

	route.RegisterHealthRoutes(api, controller.NewHealthController(db))
	route.RegisterOrderRoutes(api, orderController, authMiddleware)
	route.RegisterAccountRoutes(api, accountController, authMiddleware)
	route.RegisterPromotionRoutes(api, promotionController, authMiddleware)

	return router
}

// Run serve HTTP e os processos de fundo até ctx ser cancelado
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + a.cfg.HTTPPort,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("servidor HTTP iniciado", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("erro no servidor HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("encerrando servidor HTTP")
		return server.Shutdown(shutdownCtx)
	})

	if a.sink != nil {
		g.Go(func() error {
			return a.sink.Run(ctx)
		})
	}

	g.Go(func() error {
		return a.scheduler.Run(ctx)
	})

	return g.Wait()
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("erro ao fechar conexão AMQP", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("erro ao fechar conexão Redis", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
