// Package persona реализует HTTP-обработчик генерации текста персоны чат-бота.
//
// Handler отправляет имя и описание чат-бота провайдеру генерации
// и возвращает короткий текст персоны для системной инструкции.
package persona

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Request — входные данные генерации персоны.
type Request struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Service описывает интерфейс генерации персоны.
type Service interface {
	GeneratePersona(ctx context.Context, name, description string) (string, error)
}

// Handler обрабатывает запросы на генерацию персоны.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать персону чат-бота
// @Description Запрашивает у провайдера генерации короткий текст персоны по имени и описанию чат-бота.
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Имя и описание чат-бота"
// @Success 200 {object} map[string]any "Текст персоны"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер генерации недоступен"
// @Router /generate/persona [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.persona"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	persona, err := h.service.GeneratePersona(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, models.ErrCompletionFailed) {
			log.Error("completion provider failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to generate response"))
			return
		}
		log.Error("failed to generate persona", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate persona"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"persona": persona,
	}))
}
