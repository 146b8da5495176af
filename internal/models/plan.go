package models

// PlanFeature описывает одну позицию в списке возможностей тарифа.
type PlanFeature struct {
	Name     string `json:"name"`     // Название возможности
	Included bool   `json:"included"` // Входит ли возможность в тариф
}

// Plan представляет тарифный план подписки. Планы — статические
// справочные данные, заполняются при старте и не изменяются.
type Plan struct {
	ID          string        `json:"id"`          // Строковый идентификатор: basic, pro, enterprise
	Name        string        `json:"name"`        // Отображаемое название
	Price       int           `json:"price"`       // Цена в месяц
	Description string        `json:"description"` // Краткое описание
	MaxChatbots int           `json:"maxChatbots"` // Квота: максимум чат-ботов на владельца
	Features    []PlanFeature `json:"features"`    // Упорядоченный список возможностей
}

// DefaultPlans возвращает предзаполненный справочник тарифов.
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID:          "basic",
			Name:        "Basic",
			Price:       29,
			Description: "Great for individuals and small websites",
			MaxChatbots: 3,
			Features: []PlanFeature{
				{Name: "Up to 3 chatbots", Included: true},
				{Name: "Standard AI models", Included: true},
				{Name: "Email support", Included: true},
				{Name: "Analytics dashboard", Included: true},
				{Name: "Custom branding", Included: false},
				{Name: "API access", Included: false},
			},
		},
		{
			ID:          "pro",
			Name:        "Professional",
			Price:       79,
			Description: "Perfect for growing businesses",
			MaxChatbots: 10,
			Features: []PlanFeature{
				{Name: "Up to 10 chatbots", Included: true},
				{Name: "Advanced AI models", Included: true},
				{Name: "Priority support", Included: true},
				{Name: "Analytics dashboard", Included: true},
				{Name: "Custom branding", Included: true},
				{Name: "API access", Included: true},
			},
		},
		{
			ID:          "enterprise",
			Name:        "Enterprise",
			Price:       199,
			Description: "For large organizations with complex needs",
			MaxChatbots: 50,
			Features: []PlanFeature{
				{Name: "Up to 50 chatbots", Included: true},
				{Name: "Premium AI models", Included: true},
				{Name: "24/7 dedicated support", Included: true},
				{Name: "Advanced analytics", Included: true},
				{Name: "Custom branding", Included: true},
				{Name: "Full API access", Included: true},
			},
		},
	}
}
