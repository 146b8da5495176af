// Package embedding реализует HTTP-обработчик получения векторного
// представления текста через провайдера генерации.
package embedding

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
)

// Request — входные данные для получения вектора.
type Request struct {
	Text string `json:"text" validate:"required"`
}

// Service описывает интерфейс получения векторного представления.
type Service interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Handler обрабатывает запросы на получение вектора текста.
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
// @Summary Получить вектор текста
// @Description Возвращает векторное представление текста от провайдера генерации.
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Текст для векторизации"
// @Success 200 {object} map[string]any "Вектор текста"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер генерации недоступен"
// @Router /embeddings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.embedding"

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

	vector, err := h.service.GenerateEmbedding(r.Context(), req.Text)
	if err != nil {
		log.Error("failed to generate embedding", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to generate embedding"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"embedding": vector,
	}))
}
