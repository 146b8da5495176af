// Package list реализует HTTP-обработчик получения справочника шаблонов чат-ботов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Service описывает интерфейс получения шаблонов.
type Service interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
}

// Handler обрабатывает запросы на получение справочника шаблонов.
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
// @Summary Получить справочник шаблонов
// @Description Возвращает все доступные шаблоны чат-ботов.
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список шаблонов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /templates [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.template.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		log.Error("failed to list templates", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list templates"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"templates": templates,
	}))
}
