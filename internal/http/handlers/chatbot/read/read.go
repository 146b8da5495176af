// Package read реализует HTTP-обработчик получения чат-бота по его ID.
//
// Handler извлекает ID из URL-параметров, проверяет принадлежность чат-бота
// текущему пользователю через сервис и возвращает данные в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения чат-бота.
type Service interface {
	Get(ctx context.Context, userID, id int64) (*models.Chatbot, error)
}

// Handler обрабатывает запросы на получение чат-бота по идентификатору.
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
// @Summary Получить чат-бота по ID
// @Description Возвращает чат-бота, если он принадлежит текущему пользователю.
// @Tags Chatbots
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID чат-бота"
// @Success 200 {object} map[string]any "Данные чат-бота"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чат-бот принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Чат-бот не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /chatbots/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chatbot.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid chatbot id"))
		return
	}

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bot, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Warn("chatbot not found", slog.Int64("chatbot_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("chatbot not found"))
		case errors.Is(err, models.ErrNotOwner):
			log.Warn("chatbot belongs to another user", slog.Int64("chatbot_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not authorized"))
		default:
			log.Error("failed to read chatbot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read chatbot"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"chatbot": bot,
	}))
}
