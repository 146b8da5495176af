package models

import (
	"errors"
	"fmt"
)

// Доменные ошибки. На границе HTTP каждая отображается в свой статус-код:
// ErrNotFound — 404, ErrInvalidCredentials — 401, ErrNotOwner — 403,
// QuotaError — 403, ErrChatbotInactive — 400, ErrCompletionFailed — 502.
var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotOwner           = errors.New("not authorized")
	ErrNoSubscription     = errors.New("no active subscription found")
	ErrChatbotInactive    = errors.New("chatbot is not active")
	ErrCompletionFailed   = errors.New("failed to generate response")
)

// QuotaError возвращается при попытке создать чат-бота сверх квоты
// тарифного плана. Limit несет числовое ограничение для отображения.
type QuotaError struct {
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("chatbot limit of %d for the current plan is reached", e.Limit)
}
