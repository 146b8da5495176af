// Package chatbotdashboard собирает HTTP-приложение дашборда: хранилище,
// кэш, клиент провайдера генерации, сервисы и маршруты.
package chatbotdashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/cache"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/completion"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/config"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/migrations"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/storage/memory"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/storage/repository"

	analyticsservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/analytics"
	authservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/auth"
	billingservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/billing"
	chatbotservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/chatbot"
	conversationservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/conversation"
	profileservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/profile"
	settingsservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/settings"
)

// App представляет HTTP-приложение дашборда.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: подключает хранилище (PostgreSQL при заданной
// строке подключения, иначе память), Redis и провайдера генерации,
// создает сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var store Storage
	var db *repository.Storage
	if cfg.StorageConnectionString != "" {
		var err error
		db, err = repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		store = db
	} else {
		logger.Warn("storage connection string is empty, using in-memory store")
		store = memory.New()
	}

	var cacheRedis *cache.Cache
	if cfg.AddressRedis != "" {
		var err error
		cacheRedis, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("redis address is empty, chatbot cache disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	completer := completion.NewClient(cfg.Completion)

	services := Services{
		Auth:         authservice.NewAuthService(store, store, jwtMaker),
		Chatbot:      chatbotservice.NewChatbotService(store, store, store, cacheRedis, logger),
		Conversation: conversationservice.NewConversationService(store, store, completer, logger),
		Billing:      billingservice.NewBillingService(store),
		Profile:      profileservice.NewProfileService(store),
		Settings:     settingsservice.NewSettingsService(store),
		Analytics:    analyticsservice.NewAnalyticsService(store),
		Completer:    completer,
		Store:        store,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.db != nil {
			if closeErr := a.db.DB.Close(); closeErr != nil {
				a.logger.Error("failed to close storage", slog.Any("err", closeErr))
			}
		}
		return err
	}
}
