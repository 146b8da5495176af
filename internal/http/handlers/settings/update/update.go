// Package update реализует HTTP-обработчик обновления настроек пользователя.
//
// Поддерживает обновление нескольких секций сразу (PATCH /settings)
// и адресное обновление одной секции (PATCH /settings/{section}).
// Каждая секция заменяется целиком, без слияния по полям.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	settingssvc "github.com/magabrotheeeer/chatbot-dashboard/internal/services/settings"
)

// Request — секции настроек для обновления. Отсутствующие секции не трогаются.
type Request struct {
	API           *models.APISettings          `json:"api"`
	Notifications *models.NotificationSettings `json:"notifications"`
	Appearance    *models.AppearanceSettings   `json:"appearance"`
}

// Service описывает интерфейс бизнес-логики обновления настроек.
type Service interface {
	Update(ctx context.Context, userID int64, patch models.SettingsPatch) (*models.Settings, error)
	UpdateSection(ctx context.Context, userID int64, section string, patch models.SettingsPatch) (*models.Settings, error)
}

// Handler обрабатывает запросы на обновление настроек.
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
// @Summary Обновить настройки
// @Description Обновляет настройки текущего пользователя. При наличии URL-параметра section обновляется только указанная секция.
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param section path string false "Секция настроек: api, notifications или appearance"
// @Param request body Request true "Обновляемые секции"
// @Success 200 {object} map[string]any "Обновленные настройки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестная секция"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /settings/{section} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.update"

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

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	patch := models.SettingsPatch{
		API:           req.API,
		Notifications: req.Notifications,
		Appearance:    req.Appearance,
	}

	var settings *models.Settings
	var err error
	if section := chi.URLParam(r, "section"); section != "" {
		settings, err = h.service.UpdateSection(r.Context(), userID, section, patch)
	} else {
		settings, err = h.service.Update(r.Context(), userID, patch)
	}
	if err != nil {
		if errors.Is(err, settingssvc.ErrUnknownSection) {
			log.Warn("unknown settings section")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown settings section"))
			return
		}
		log.Error("failed to update settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update settings"))
		return
	}

	log.Info("settings updated", slog.Int64("user_id", userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"settings": settings,
	}))
}
