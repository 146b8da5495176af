package models

// APISettings — параметры доступа к провайдеру генерации.
// Секция атомарная, заменяется целиком при обновлении.
type APISettings struct {
	APIKey       string `json:"apiKey"`
	DefaultModel string `json:"defaultModel"`
	RateLimit    int    `json:"rateLimit"` // Запросов в минуту для виджета
}

// NotificationSettings — флаги почтовых уведомлений пользователя.
// Секция атомарная, заменяется целиком при обновлении.
type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	ChatbotUpdates     bool `json:"chatbotUpdates"`
	WeeklyReports      bool `json:"weeklyReports"`
	SecurityAlerts     bool `json:"securityAlerts"`
	MarketingEmails    bool `json:"marketingEmails"`
}

// AppearanceSettings — оформление дашборда.
// Секция атомарная, заменяется целиком при обновлении.
type AppearanceSettings struct {
	Theme            string `json:"theme"`
	AccentColor      string `json:"accentColor"`
	SidebarCollapsed bool   `json:"sidebarCollapsed"`
}

// Settings — настройки пользователя, одна запись на пользователя.
// Создаются лениво со значениями по умолчанию при первом чтении.
type Settings struct {
	ID            int64                `json:"id"`
	UserID        int64                `json:"userId"`
	API           APISettings          `json:"api"`
	Notifications NotificationSettings `json:"notifications"`
	Appearance    AppearanceSettings   `json:"appearance"`
}

// SettingsPatch описывает обновление настроек по секциям.
// Каждая секция обновляется независимо и заменяется целиком.
type SettingsPatch struct {
	API           *APISettings
	Notifications *NotificationSettings
	Appearance    *AppearanceSettings
}

// DefaultSettings возвращает настройки по умолчанию для пользователя.
func DefaultSettings(userID int64) Settings {
	return Settings{
		UserID: userID,
		API: APISettings{
			DefaultModel: "gpt-4o",
			RateLimit:    60,
		},
		Notifications: NotificationSettings{
			EmailNotifications: true,
			ChatbotUpdates:     true,
			WeeklyReports:      true,
			SecurityAlerts:     true,
			MarketingEmails:    false,
		},
		Appearance: AppearanceSettings{
			Theme:       "light",
			AccentColor: "#3B82F6",
		},
	}
}
