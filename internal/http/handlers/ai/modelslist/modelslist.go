// Package modelslist реализует HTTP-обработчик получения списка доступных
// моделей провайдера генерации.
package modelslist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
)

// Service описывает интерфейс получения списка моделей.
type Service interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Handler обрабатывает запросы на получение списка моделей.
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
// @Summary Получить список моделей
// @Description Возвращает доступные чат-модели провайдера генерации.
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список моделей"
// @Failure 502 {object} response.ErrorResponse "Провайдер генерации недоступен"
// @Router /ai/models [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.modelslist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	models, err := h.service.ListModels(r.Context())
	if err != nil {
		log.Error("failed to list models", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to list models"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"models": models,
	}))
}
