// Package list реализует HTTP-обработчик получения списка чат-ботов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка чат-ботов.
type Service interface {
	List(ctx context.Context, userID int64) ([]*models.Chatbot, error)
}

// Handler обрабатывает запросы на получение списка чат-ботов.
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
// @Summary Получить список чат-ботов
// @Description Возвращает все чат-боты текущего пользователя в порядке создания.
// @Tags Chatbots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список чат-ботов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /chatbots [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chatbot.list"

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

	bots, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list chatbots", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list chatbots"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"chatbots": bots,
		"count":    len(bots),
	}))
}
