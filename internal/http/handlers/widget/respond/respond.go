// Package respond реализует публичный HTTP-обработчик хода диалога виджета.
//
// Handler принимает публичный ключ чат-бота, опциональный идентификатор
// диалога и реплику посетителя, вызывает провайдера генерации через сервис
// и возвращает ответ ассистента. Авторизация не требуется, запросы
// ограничиваются по частоте.
package respond

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
	conversation "github.com/magabrotheeeer/chatbot-dashboard/internal/services/conversation"
)

// Request — входные данные хода диалога.
type Request struct {
	PublicKey      string `json:"publicKey" validate:"required"`
	ConversationID *int64 `json:"conversationId"`
	Message        string `json:"message" validate:"required"`
}

// Service описывает интерфейс бизнес-логики обработки хода диалога.
type Service interface {
	Respond(ctx context.Context, publicKey string, conversationID *int64, userMessage string) (*conversation.RespondResult, error)
}

// Handler обрабатывает публичные запросы виджета.
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
// @Summary Обработать реплику посетителя
// @Description Публичный эндпоинт виджета. Находит чат-бота по публичному ключу, продолжает или открывает диалог и возвращает ответ ассистента.
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body Request true "Публичный ключ, ID диалога и реплика"
// @Success 200 {object} map[string]any "Ответ ассистента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неактивный чат-бот"
// @Failure 404 {object} response.ErrorResponse "Чат-бот или диалог не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер генерации недоступен"
// @Router /chatbot/response [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.widget.respond"

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

	result, err := h.service.Respond(r.Context(), req.PublicKey, req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Warn("chatbot or conversation not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("chatbot not found"))
		case errors.Is(err, models.ErrChatbotInactive):
			log.Warn("chatbot is not active")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("chatbot is not active"))
		case errors.Is(err, models.ErrCompletionFailed):
			log.Error("completion provider failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to generate response"))
		default:
			log.Error("failed to respond", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process message"))
		}
		return
	}

	log.Info("response generated", slog.Int64("conversation_id", result.ConversationID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"conversationId": result.ConversationID,
		"response":       result.Answer,
	}))
}
