// Package overview реализует HTTP-обработчик агрегированной статистики
// по чат-ботам и диалогам текущего пользователя.
package overview

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

// Service описывает интерфейс бизнес-логики статистики.
type Service interface {
	GetOverview(ctx context.Context, userID int64) (*analytics.Overview, error)
}

// Handler обрабатывает запросы на получение статистики.
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
// @Summary Получить статистику
// @Description Возвращает агрегированные показатели по чат-ботам и диалогам, вычисленные из сохраненных данных.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Агрегированная статистика"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /analytics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.overview"

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

	stats, err := h.service.GetOverview(r.Context(), userID)
	if err != nil {
		log.Error("failed to compute analytics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute analytics"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"stats": stats,
	}))
}
