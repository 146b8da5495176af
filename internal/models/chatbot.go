package models

import "time"

// Статусы чат-бота.
const (
	ChatbotDraft    = "draft"
	ChatbotActive   = "active"
	ChatbotInactive = "inactive"
)

// Appearance описывает внешний вид виджета. Объект атомарный:
// при частичном обновлении чат-бота заменяется целиком, а не по полям.
type Appearance struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty"`
	BorderRadius string `json:"borderRadius,omitempty"`
	Position     string `json:"position,omitempty"`
}

// AISettings описывает параметры генерации ответов чат-бота.
// Объект атомарный, заменяется целиком при обновлении.
type AISettings struct {
	Model             string  `json:"model,omitempty"`             // Модель провайдера, по умолчанию берется из настроек
	Persona           string  `json:"persona,omitempty"`           // Текст персоны, добавляется в системную инструкцию
	Temperature       float64 `json:"temperature,omitempty"`       // Температура генерации, [0,1]
	MaxResponseLength int     `json:"maxResponseLength,omitempty"` // Бюджет токенов на ответ
}

// Flow — именованная типизированная единица диалоговой логики чат-бота.
// Содержимое узлов непрозрачно, хранится как есть.
type Flow struct {
	ID    int64            `json:"id"`
	Name  string           `json:"name"`
	Type  string           `json:"type"` // greeting, faq, support или custom
	Nodes []map[string]any `json:"nodes"`
}

// Chatbot — принадлежащий пользователю набор настроек одного
// встраиваемого ассистента: внешний вид, параметры генерации, потоки.
type Chatbot struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"userId"`    // Владелец
	PublicKey   string         `json:"publicKey"` // Публичный ключ виджета для обращений с сайта
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"` // draft, active или inactive
	Color       string         `json:"color"`
	Appearance  Appearance     `json:"appearance"`
	Settings    map[string]any `json:"settings"`
	AISettings  AISettings     `json:"aiSettings"`
	Flows       []Flow         `json:"flows"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ChatbotPatch описывает частичное обновление чат-бота. Скалярные поля
// обновляются независимо, вложенные объекты (Appearance, Settings,
// AISettings, Flows) заменяются целиком без слияния по ключам.
type ChatbotPatch struct {
	Name        *string
	Description *string
	Status      *string
	Color       *string
	Appearance  *Appearance
	Settings    *map[string]any
	AISettings  *AISettings
	Flows       *[]Flow
	UpdatedAt   *time.Time
}
