// Package read реализует HTTP-обработчик получения шаблона чат-бота по ID.
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

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Service описывает интерфейс получения шаблона.
type Service interface {
	GetTemplate(ctx context.Context, id int64) (*models.Template, error)
}

// Handler обрабатывает запросы на получение шаблона по идентификатору.
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
// @Summary Получить шаблон по ID
// @Description Возвращает шаблон чат-бота из справочника.
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID шаблона"
// @Success 200 {object} map[string]any "Данные шаблона"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Шаблон не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /templates/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.template.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid template id"))
		return
	}

	tpl, err := h.service.GetTemplate(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("template not found", slog.Int64("template_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("template not found"))
			return
		}
		log.Error("failed to read template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read template"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"template": tpl,
	}))
}
