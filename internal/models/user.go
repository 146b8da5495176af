// Package models содержит доменные структуры дашборда чат-ботов:
// пользователи, тарифные планы, подписки, чат-боты, диалоги, шаблоны
// и пользовательские настройки. Структуры используются в бизнес-логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     `json:"id"`                  // Уникальный числовой идентификатор
	Username     string    `json:"username"`            // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`                   // Хэш пароля, наружу не отдается
	Email        string    `json:"email"`               // Электронная почта
	FullName     string    `json:"fullName,omitempty"`  // Полное имя (опционально)
	AvatarURL    string    `json:"avatarUrl,omitempty"` // Ссылка на аватар (опционально)
	Role         string    `json:"role"`                // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"createdAt"`           // Дата регистрации
}

// UserPatch описывает частичное обновление пользователя.
// Применяются только поля, отличные от nil.
type UserPatch struct {
	Email        *string
	FullName     *string
	AvatarURL    *string
	PasswordHash *string
}
