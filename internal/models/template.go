package models

// TemplateContent — непрозрачный набор потоков и настроек,
// из которого собирается новый чат-бот.
type TemplateContent struct {
	Flows    []Flow         `json:"flows"`
	Settings map[string]any `json:"settings"`
}

// Template — готовый шаблон чат-бота. Шаблоны — статические справочные
// данные, доступны только на чтение.
type Template struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	Category    string          `json:"category"`
	Complexity  string          `json:"complexity"` // simple, moderate или complex
	Content     TemplateContent `json:"content"`
}

// DefaultTemplates возвращает предзаполненный справочник шаблонов.
func DefaultTemplates() []Template {
	return []Template{
		{
			ID:          1,
			Name:        "Customer Support",
			Description: "Handle common customer inquiries and support requests",
			Icon:        "help",
			Color:       "blue",
			Category:    "Support",
			Complexity:  "moderate",
			Content:     TemplateContent{Flows: []Flow{}, Settings: map[string]any{}},
		},
		{
			ID:          2,
			Name:        "E-commerce Assistant",
			Description: "Help customers with product questions and ordering",
			Icon:        "shopping",
			Color:       "green",
			Category:    "Sales",
			Complexity:  "complex",
			Content:     TemplateContent{Flows: []Flow{}, Settings: map[string]any{}},
		},
		{
			ID:          3,
			Name:        "Business FAQ",
			Description: "Answer frequently asked questions about your business",
			Icon:        "business",
			Color:       "purple",
			Category:    "Information",
			Complexity:  "simple",
			Content:     TemplateContent{Flows: []Flow{}, Settings: map[string]any{}},
		},
		{
			ID:          4,
			Name:        "Website Guide",
			Description: "Help visitors navigate your website and find information",
			Icon:        "website",
			Color:       "orange",
			Category:    "Navigation",
			Complexity:  "simple",
			Content:     TemplateContent{Flows: []Flow{}, Settings: map[string]any{}},
		},
	}
}
