// Package chatbotdashboard предоставляет маршруты для основного приложения.
package chatbotdashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/completion"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/ai/embedding"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/ai/modelslist"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/ai/persona"
	analyticsoverview "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/analytics/overview"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/auth/register"
	billinginfo "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/billing/info"
	billingupgrade "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/billing/upgrade"
	chatbotcreate "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/chatbot/create"
	chatbotlist "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/chatbot/list"
	chatbotread "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/chatbot/read"
	chatbotremove "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/chatbot/remove"
	chatbotupdate "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/chatbot/update"
	dashboardhandler "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/health"
	profilepassword "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/profile/password"
	profileread "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/profile/update"
	settingsread "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/settings/read"
	settingsupdate "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/settings/update"
	templatelist "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/template/list"
	templateread "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/template/read"
	widgetrespond "github.com/magabrotheeeer/chatbot-dashboard/internal/http/handlers/widget/respond"

	analyticsservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/analytics"
	authservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/auth"
	billingservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/billing"
	chatbotservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/chatbot"
	conversationservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/conversation"
	profileservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/profile"
	settingsservice "github.com/magabrotheeeer/chatbot-dashboard/internal/services/settings"
)

// Частота запросов публичного эндпоинта виджета: 60 в минуту.
const (
	widgetRateLimit = 1.0
	widgetRateBurst = 10
)

// Storage объединяет контракты всех сервисов; ему удовлетворяют
// и PostgreSQL-хранилище, и хранилище в памяти.
type Storage interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)

	ListPlans(ctx context.Context) ([]models.Plan, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)

	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	GetSubscriptionByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id int64, patch models.SubscriptionPatch) (*models.Subscription, error)
	ListSubscriptionsRenewingOn(ctx context.Context, day time.Time) ([]*models.Subscription, error)

	CreateChatbot(ctx context.Context, bot models.Chatbot) (*models.Chatbot, error)
	GetChatbot(ctx context.Context, id int64) (*models.Chatbot, error)
	GetChatbotByPublicKey(ctx context.Context, key string) (*models.Chatbot, error)
	ListChatbotsByUserID(ctx context.Context, userID int64) ([]*models.Chatbot, error)
	CountChatbotsByUserID(ctx context.Context, userID int64) (int, error)
	UpdateChatbot(ctx context.Context, id int64, patch models.ChatbotPatch) (*models.Chatbot, error)
	DeleteChatbot(ctx context.Context, id int64) (bool, error)

	CreateConversation(ctx context.Context, conv models.Conversation) (*models.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*models.Conversation, error)
	ListConversationsByChatbotID(ctx context.Context, chatbotID int64) ([]*models.Conversation, error)
	AppendConversationMessage(ctx context.Context, id int64, msg models.Message) (*models.Conversation, error)

	ListTemplates(ctx context.Context) ([]models.Template, error)
	GetTemplate(ctx context.Context, id int64) (*models.Template, error)

	CreateSettings(ctx context.Context, st models.Settings) (*models.Settings, error)
	GetSettingsByUserID(ctx context.Context, userID int64) (*models.Settings, error)
	UpdateSettingsByUserID(ctx context.Context, userID int64, patch models.SettingsPatch) (*models.Settings, error)
}

// Services — собранные сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth         *authservice.AuthService
	Chatbot      *chatbotservice.ChatbotService
	Conversation *conversationservice.ConversationService
	Billing      *billingservice.BillingService
	Profile      *profileservice.ProfileService
	Settings     *settingsservice.SettingsService
	Analytics    *analyticsservice.AnalyticsService
	Completer    *completion.Client
	Store        Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Публичный эндпоинт виджета с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(widgetRateLimit, widgetRateBurst))
			r.Post("/chatbot/response", widgetrespond.New(logger, s.Conversation).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/auth/me", me.New(logger, s.Auth).ServeHTTP)
			r.Get("/dashboard", dashboardhandler.New(logger, s.Analytics).ServeHTTP)

			r.Get("/chatbots", chatbotlist.New(logger, s.Chatbot).ServeHTTP)
			r.Post("/chatbots", chatbotcreate.New(logger, s.Chatbot).ServeHTTP)
			r.Get("/chatbots/{id}", chatbotread.New(logger, s.Chatbot).ServeHTTP)
			r.Patch("/chatbots/{id}", chatbotupdate.New(logger, s.Chatbot).ServeHTTP)
			r.Delete("/chatbots/{id}", chatbotremove.New(logger, s.Chatbot).ServeHTTP)

			r.Get("/templates", templatelist.New(logger, s.Store).ServeHTTP)
			r.Get("/templates/{id}", templateread.New(logger, s.Store).ServeHTTP)

			r.Get("/analytics", analyticsoverview.New(logger, s.Analytics).ServeHTTP)

			r.Get("/billing", billinginfo.New(logger, s.Billing).ServeHTTP)
			r.Post("/billing/upgrade", billingupgrade.New(logger, s.Billing).ServeHTTP)

			r.Get("/profile", profileread.New(logger, s.Profile).ServeHTTP)
			r.Patch("/profile", profileupdate.New(logger, s.Profile).ServeHTTP)
			r.Patch("/profile/password", profilepassword.New(logger, s.Profile).ServeHTTP)

			r.Get("/settings", settingsread.New(logger, s.Settings).ServeHTTP)
			r.Patch("/settings", settingsupdate.New(logger, s.Settings).ServeHTTP)
			r.Patch("/settings/{section}", settingsupdate.New(logger, s.Settings).ServeHTTP)

			r.Post("/generate/persona", persona.New(logger, s.Conversation).ServeHTTP)
			r.Post("/embeddings", embedding.New(logger, s.Completer).ServeHTTP)
			r.Get("/ai/models", modelslist.New(logger, s.Completer).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
