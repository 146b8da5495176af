package models

import "time"

// Роли сообщений в диалоге.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message — одна реплика диалога с отметкой времени.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation — журнал сообщений одной сессии конечного пользователя
// с чат-ботом. Журнал только дополняется, порядок сообщений строго
// соответствует порядку добавления.
type Conversation struct {
	ID        int64          `json:"id"`
	ChatbotID int64          `json:"chatbotId"`
	StartedAt time.Time      `json:"startedAt"`
	EndedAt   *time.Time     `json:"endedAt,omitempty"`
	Resolved  bool           `json:"resolved"`
	Messages  []Message      `json:"messages"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
