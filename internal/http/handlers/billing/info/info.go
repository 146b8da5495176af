// Package info реализует HTTP-обработчик получения данных подписки
// и списка тарифных планов.
package info

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	billing "github.com/magabrotheeeer/chatbot-dashboard/internal/services/billing"
)

// Service описывает интерфейс бизнес-логики биллинга.
type Service interface {
	GetInfo(ctx context.Context, userID int64) (*billing.Info, error)
}

// Handler обрабатывает запросы на получение данных подписки.
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
// @Summary Получить данные подписки
// @Description Возвращает подписку текущего пользователя, ее тарифный план и справочник планов.
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Данные подписки и планы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.info"

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

	info, err := h.service.GetInfo(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNoSubscription) {
			log.Warn("no active subscription")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active subscription found"))
			return
		}
		log.Error("failed to read billing info", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read billing info"))
		return
	}

	render.JSON(w, r, response.OKWithData(info))
}
