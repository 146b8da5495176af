// Package dashboard реализует HTTP-обработчик сводки дашборда.
//
// Handler собирает чат-ботов пользователя, агрегированную статистику
// и данные подписки в один ответ для главной страницы.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	analytics "github.com/magabrotheeeer/chatbot-dashboard/internal/services/analytics"
)

// Service описывает интерфейс бизнес-логики сводки дашборда.
type Service interface {
	GetDashboard(ctx context.Context, userID int64) (*analytics.Dashboard, error)
}

// Handler обрабатывает запросы на получение сводки дашборда.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сводку дашборда
// @Description Возвращает чат-ботов, статистику и подписку текущего пользователя одним ответом.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сводка дашборда"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	data, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}
