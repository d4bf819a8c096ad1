package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigmarket-backend/internal/config"
	"github.com/ignatzorin/gigmarket-backend/internal/db"
	"github.com/ignatzorin/gigmarket-backend/internal/http/router"
	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/cache"
	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/notify"
	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/storage"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/handler"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/errreport"
	"github.com/ignatzorin/gigmarket-backend/internal/plancatalog"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/completion"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/contact"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/conversation"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/gig"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/proposal"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/wallet"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
	"github.com/ignatzorin/gigmarket-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	logger.Setup(cfg.Env)

	if err := errreport.Init(cfg.SentryDSN, cfg.Env); err != nil {
		logger.Log.WithError(err).Warn("main: Sentry не инициализирован")
	}
	defer errreport.Flush()

	if err := validation.RegisterGinRules(); err != nil {
		logger.Log.Fatalf("main: ошибка регистрации правил валидации: %v", err)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if _, err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Репозитории.
	gigRepo := persistence.NewGigRepositoryAdapter(dbConn)
	proposalRepo := persistence.NewProposalRepositoryAdapter(dbConn)
	convRepo := persistence.NewConversationRepositoryAdapter(dbConn)
	completionRepo := persistence.NewCompletionRepositoryAdapter(dbConn)
	planRepo := persistence.NewPlanRepositoryAdapter(dbConn)
	usageRepo := persistence.NewUsageRepositoryAdapter(dbConn)
	profileRepo := persistence.NewProfileRepositoryAdapter(dbConn)
	unlockRepo := persistence.NewContactUnlockRepositoryAdapter(dbConn)
	txRepo := persistence.NewTransactionRepositoryAdapter(dbConn)
	notificationRepo := persistence.NewNotificationRepositoryAdapter(dbConn)

	if cfg.PlanCatalogPath != "" {
		catalog, err := plancatalog.Load(cfg.PlanCatalogPath)
		if err != nil {
			logger.Log.Fatalf("main: ошибка чтения каталога тарифов: %v", err)
		}
		n, err := catalog.Apply(ctx, planRepo)
		if err != nil {
			logger.Log.Fatalf("main: ошибка загрузки каталога тарифов: %v", err)
		}
		logger.Log.WithField("plans", n).Info("main: каталог тарифов применён")
	}

	// Учёт квот.
	var ledgerOpts []quota.Option
	var redisClient *redis.Client
	if cfg.QuotaStrategy == config.QuotaStrategyRedis {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Fatalf("main: ошибка подключения к Redis: %v", err)
		}
		defer func() { _ = redisClient.Close() }()
		ledgerOpts = append(ledgerOpts, quota.WithCounter(cache.NewQuotaCounter(redisClient)))
	}
	ledger := quota.NewLedger(profileRepo, planRepo, usageRepo, ledgerOpts...)

	// Хранилище материалов.
	var evidenceStorage completion.EvidenceStorage
	var presigner completion.EvidencePresigner
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:      cfg.S3.Endpoint,
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicURL,
			MaxUploadMB:   cfg.MaxUploadSizeMB,
		})
		if err != nil {
			logger.Log.Fatalf("main: не удалось подготовить S3: %v", err)
		}
		evidenceStorage, presigner = s3Storage, s3Storage
	default:
		localStorage, err := storage.NewLocalStorage(cfg.MediaStoragePath, cfg.MediaPublicURL, cfg.MaxUploadSizeMB)
		if err != nil {
			logger.Log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
		}
		evidenceStorage = localStorage
	}

	// Уведомления: входящие, вебсокеты и, если задан проект, Pub/Sub.
	hub := ws.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	notificationService := notification.NewService(notificationRepo)
	sinks := []notify.Sink{
		notify.NewStoreSink(notificationService),
		notify.NewRealtimeSink(hub),
	}
	if cfg.PubSubProjectID != "" {
		publisher, err := notify.NewPubSubPublisher(ctx, cfg.PubSubProjectID)
		if err != nil {
			logger.Log.Fatalf("main: ошибка подключения к Pub/Sub: %v", err)
		}
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, notify.NewPubSubSink(publisher, cfg.PubSubNotificationsTopic))
	}
	dispatcher := notify.NewDispatcher(notify.Options{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
	}, sinks...)
	dispatcher.Start()

	// Сценарии.
	walletService := wallet.NewService(txRepo)
	gate := contact.NewGate(gigRepo, profileRepo, unlockRepo, ledger)
	openConversationUC := conversation.NewGetOrCreateConversationUseCase(convRepo)

	gigHandler := handler.NewGigHandler(
		gig.NewCreateGigUseCase(gigRepo),
		gig.NewGetGigUseCase(gigRepo),
		gig.NewListGigsUseCase(gigRepo),
		gig.NewApproveGigUseCase(gigRepo),
		gig.NewCancelGigUseCase(gigRepo),
		gig.NewFundGigUseCase(gigRepo, walletService),
	)
	proposalHandler := handler.NewProposalHandler(
		proposal.NewCreateProposalUseCase(proposalRepo, gigRepo, ledger, gate, openConversationUC, dispatcher),
		proposal.NewCreateCounterProposalUseCase(proposalRepo, gigRepo, convRepo, dispatcher),
		proposal.NewAcceptProposalUseCase(proposalRepo, gigRepo, dispatcher),
		proposal.NewRejectProposalUseCase(proposalRepo, gigRepo, dispatcher),
		proposal.NewGetProposalUseCase(proposalRepo, gigRepo),
		proposal.NewListGigProposalsUseCase(proposalRepo, gigRepo),
		proposal.NewListMyProposalsUseCase(proposalRepo),
	)
	completionHandler := handler.NewCompletionHandler(
		completion.NewSubmitCompletionUseCase(completionRepo, gigRepo, proposalRepo, dispatcher),
		completion.NewApproveCompletionUseCase(completionRepo, gigRepo, walletService, dispatcher),
		completion.NewRejectCompletionUseCase(completionRepo, gigRepo, dispatcher),
		completion.NewGetCompletionUseCase(completionRepo, gigRepo),
		completion.NewListGigCompletionsUseCase(completionRepo, gigRepo),
		completion.NewUploadEvidenceUseCase(evidenceStorage),
		completion.NewPresignEvidenceUseCase(presigner),
	)

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	engine := router.SetupRouter(cfg, router.Handlers{
		Health:       handler.NewHealthHandler(dbConn, redisClient),
		Gig:          gigHandler,
		Proposal:     proposalHandler,
		Completion:   completionHandler,
		Contact:      handler.NewContactHandler(gate),
		Quota:        handler.NewQuotaHandler(ledger),
		Wallet:       handler.NewWalletHandler(walletService),
		Notification: handler.NewNotificationHandler(notificationService),
		Conversation: handler.NewConversationHandler(
			conversation.NewGetConversationUseCase(convRepo),
			conversation.NewListMyConversationsUseCase(convRepo),
		),
		WS: handler.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
	}, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Error("main: сервер завершился с ошибкой")
	}

	// Доставляем накопленные события до закрытия базы.
	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dispatcher.Stop(drainCtx); err != nil {
		logger.Log.WithError(err).Warn("main: не все уведомления доставлены")
	}
	if dropped := dispatcher.Dropped(); dropped > 0 {
		logger.Log.WithField("dropped", dropped).Warn("main: часть уведомлений потеряна")
	}
	stopHub()
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
