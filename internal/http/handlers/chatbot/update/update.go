// Package update реализует HTTP-обработчик частичного обновления чат-бота.
//
// Скалярные поля запроса применяются независимо, вложенные объекты
// (внешний вид, настройки, параметры генерации, потоки) заменяются целиком.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Request — входные данные частичного обновления. Отсутствующие поля
// остаются без изменений.
type Request struct {
	Name        *string                `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string                `json:"description"`
	Status      *string                `json:"status" validate:"omitempty,oneof=draft active inactive"`
	Color       *string                `json:"color"`
	Appearance  *models.Appearance     `json:"appearance"`
	Settings    *map[string]any        `json:"settings"`
	AISettings  *models.AISettings     `json:"aiSettings"`
	Flows       *[]models.Flow         `json:"flows"`
}

// Service описывает интерфейс бизнес-логики обновления чат-бота.
type Service interface {
	Update(ctx context.Context, userID, id int64, patch models.ChatbotPatch) (*models.Chatbot, error)
}

// Handler обрабатывает запросы на обновление чат-бота.
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
// @Summary Обновить чат-бота
// @Description Частично обновляет чат-бота текущего пользователя. Вложенные объекты заменяются целиком.
// @Tags Chatbots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID чат-бота"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленный чат-бот"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чат-бот принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Чат-бот не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /chatbots/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chatbot.update"

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

	bot, err := h.service.Update(r.Context(), userID, id, models.ChatbotPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Color:       req.Color,
		Appearance:  req.Appearance,
		Settings:    req.Settings,
		AISettings:  req.AISettings,
		Flows:       req.Flows,
	})
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
			log.Error("failed to update chatbot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update chatbot"))
		}
		return
	}

	log.Info("chatbot updated", slog.Int64("chatbot_id", bot.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"chatbot": bot,
	}))
}
