// Package create реализует HTTP-обработчик создания нового чат-бота.
//
// Handler принимает JSON-запрос с данными чат-бота, валидирует их,
// проверяет квоту тарифного плана через сервис и возвращает созданного
// чат-бота с публичным ключом виджета.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	chatbot "github.com/magabrotheeeer/chatbot-dashboard/internal/services/chatbot"
)

// Request — входные данные для создания чат-бота.
type Request struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
	Color       string `json:"color"`
	TemplateID  *int64 `json:"templateId"`
}

// Service описывает интерфейс бизнес-логики создания чат-бота.
type Service interface {
	Create(ctx context.Context, userID int64, params chatbot.CreateParams) (*models.Chatbot, error)
}

// Handler обрабатывает запросы на создание чат-бота.
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
// @Summary Создать нового чат-бота
// @Description Создает чат-бота для текущего пользователя с учетом квоты тарифного плана.
// @Tags Chatbots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Данные нового чат-бота"
// @Success 200 {object} map[string]any "Созданный чат-бот"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Превышена квота тарифного плана"
// @Failure 404 {object} response.ErrorResponse "Подписка или шаблон не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании чат-бота"
// @Router /chatbots [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chatbot.create"

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

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bot, err := h.service.Create(r.Context(), userID, chatbot.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		TemplateID:  req.TemplateID,
	})
	if err != nil {
		var quotaErr *models.QuotaError
		switch {
		case errors.As(err, &quotaErr):
			log.Warn("chatbot quota reached", slog.Int("limit", quotaErr.Limit))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(quotaErr.Error()))
		case errors.Is(err, models.ErrNoSubscription):
			log.Warn("no active subscription")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active subscription found"))
		case errors.Is(err, models.ErrNotFound):
			log.Warn("template not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("template not found"))
		default:
			log.Error("failed to create chatbot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create chatbot"))
		}
		return
	}

	log.Info("chatbot created", slog.Int64("chatbot_id", bot.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"chatbot": bot,
	}))
}
