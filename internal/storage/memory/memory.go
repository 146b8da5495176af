// Package memory реализует процессное хранилище сущностей дашборда.
//
// Записи хранятся в map, ключ — числовой идентификатор. Для каждого типа
// сущности ведется свой монотонный счетчик идентификаторов, значения не
// переиспользуются после удаления. Поиск по уникальному полю и по внешнему
// ключу выполняется линейным сканом: объем данных невелик, это хранилище
// уровня демо, а не база данных. Порядок вставки при выборках сохраняется.
//
// Частичные обновления применяются поверхностно: вложенные объекты
// (appearance, aiSettings, секции настроек и т.п.) заменяются целиком,
// без слияния по ключам.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Store — хранилище всех сущностей в памяти процесса.
// Данные живут до перезапуска. Доступ защищен RWMutex.
type Store struct {
	mu sync.RWMutex

	users         map[int64]models.User
	plans         map[string]models.Plan
	subscriptions map[int64]models.Subscription
	chatbots      map[int64]models.Chatbot
	conversations map[int64]models.Conversation
	templates     map[int64]models.Template
	settings      map[int64]models.Settings

	userOrder         []int64
	planOrder         []string
	subscriptionOrder []int64
	chatbotOrder      []int64
	conversationOrder []int64
	templateOrder     []int64
	settingsOrder     []int64

	userID         int64
	subscriptionID int64
	chatbotID      int64
	conversationID int64
	settingsID     int64
}

// New создает хранилище и заполняет справочники тарифов и шаблонов.
func New() *Store {
	s := &Store{
		users:         make(map[int64]models.User),
		plans:         make(map[string]models.Plan),
		subscriptions: make(map[int64]models.Subscription),
		chatbots:      make(map[int64]models.Chatbot),
		conversations: make(map[int64]models.Conversation),
		templates:     make(map[int64]models.Template),
		settings:      make(map[int64]models.Settings),
	}
	for _, p := range models.DefaultPlans() {
		s.plans[p.ID] = p
		s.planOrder = append(s.planOrder, p.ID)
	}
	for _, tpl := range models.DefaultTemplates() {
		s.templates[tpl.ID] = tpl
		s.templateOrder = append(s.templateOrder, tpl.ID)
	}
	return s
}

// --- Пользователи ---

// CreateUser сохраняет нового пользователя и возвращает запись
// с присвоенным идентификатором и заполненными значениями по умолчанию.
func (s *Store) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID++
	user.ID = s.userID
	if user.Role == "" {
		user.Role = "user"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	return &user, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

// GetUserByUsername возвращает пользователя по уникальному имени.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		if user := s.users[id]; user.Username == username {
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

// UpdateUser применяет частичное обновление и возвращает итоговую запись.
func (s *Store) UpdateUser(_ context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	s.users[id] = user
	return &user, nil
}

// --- Тарифные планы ---

// ListPlans возвращает справочник тарифов в порядке заполнения.
func (s *Store) ListPlans(_ context.Context) ([]models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Plan, 0, len(s.planOrder))
	for _, id := range s.planOrder {
		result = append(result, s.plans[id])
	}
	return result, nil
}

// GetPlan возвращает тариф по строковому идентификатору.
func (s *Store) GetPlan(_ context.Context, id string) (*models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &plan, nil
}

// --- Подписки ---

// CreateSubscription сохраняет подписку пользователя.
// Уникальность "одна подписка на пользователя" хранилище не проверяет,
// инвариант держит бизнес-логика.
func (s *Store) CreateSubscription(_ context.Context, sub models.Subscription) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscriptionID++
	sub.ID = s.subscriptionID
	s.subscriptions[sub.ID] = sub
	s.subscriptionOrder = append(s.subscriptionOrder, sub.ID)
	return &sub, nil
}

// GetSubscriptionByUserID возвращает подписку пользователя.
func (s *Store) GetSubscriptionByUserID(_ context.Context, userID int64) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.subscriptionOrder {
		if sub := s.subscriptions[id]; sub.UserID == userID {
			return &sub, nil
		}
	}
	return nil, models.ErrNotFound
}

// UpdateSubscription применяет частичное обновление подписки.
func (s *Store) UpdateSubscription(_ context.Context, id int64, patch models.SubscriptionPatch) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.PlanID != nil {
		sub.PlanID = *patch.PlanID
	}
	if patch.Status != nil {
		sub.Status = *patch.Status
	}
	if patch.StartDate != nil {
		sub.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		sub.EndDate = *patch.EndDate
	}
	if patch.RenewalDate != nil {
		sub.RenewalDate = *patch.RenewalDate
	}
	s.subscriptions[id] = sub
	return &sub, nil
}

// ListSubscriptionsRenewingOn возвращает активные подписки,
// дата продления которых приходится на указанный день.
func (s *Store) ListSubscriptionsRenewingOn(_ context.Context, day time.Time) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, m, d := day.Date()
	var result []*models.Subscription
	for _, id := range s.subscriptionOrder {
		sub := s.subscriptions[id]
		ry, rm, rd := sub.RenewalDate.Date()
		if sub.Status == models.SubscriptionActive && ry == y && rm == m && rd == d {
			copied := sub
			result = append(result, &copied)
		}
	}
	return result, nil
}

// --- Чат-боты ---

// CreateChatbot сохраняет нового чат-бота, присваивает идентификатор
// и заполняет значения по умолчанию: статус draft, цвет primary,
// пустые списки потоков и настроек.
func (s *Store) CreateChatbot(_ context.Context, bot models.Chatbot) (*models.Chatbot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chatbotID++
	bot.ID = s.chatbotID
	if bot.Status == "" {
		bot.Status = models.ChatbotDraft
	}
	if bot.Color == "" {
		bot.Color = "primary"
	}
	if bot.Flows == nil {
		bot.Flows = []models.Flow{}
	}
	if bot.Settings == nil {
		bot.Settings = map[string]any{}
	}
	now := time.Now().UTC()
	if bot.CreatedAt.IsZero() {
		bot.CreatedAt = now
	}
	if bot.UpdatedAt.IsZero() {
		bot.UpdatedAt = now
	}
	s.chatbots[bot.ID] = bot
	s.chatbotOrder = append(s.chatbotOrder, bot.ID)
	return &bot, nil
}

// GetChatbot возвращает чат-бота по идентификатору.
func (s *Store) GetChatbot(_ context.Context, id int64) (*models.Chatbot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bot, ok := s.chatbots[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &bot, nil
}

// GetChatbotByPublicKey возвращает чат-бота по публичному ключу виджета.
func (s *Store) GetChatbotByPublicKey(_ context.Context, key string) (*models.Chatbot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.chatbotOrder {
		if bot := s.chatbots[id]; bot.PublicKey == key {
			return &bot, nil
		}
	}
	return nil, models.ErrNotFound
}

// ListChatbotsByUserID возвращает чат-ботов владельца в порядке создания.
func (s *Store) ListChatbotsByUserID(_ context.Context, userID int64) ([]*models.Chatbot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Chatbot
	for _, id := range s.chatbotOrder {
		if bot := s.chatbots[id]; bot.UserID == userID {
			copied := bot
			result = append(result, &copied)
		}
	}
	return result, nil
}

// CountChatbotsByUserID возвращает число чат-ботов владельца,
// используется при проверке квоты тарифа.
func (s *Store) CountChatbotsByUserID(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, id := range s.chatbotOrder {
		if s.chatbots[id].UserID == userID {
			count++
		}
	}
	return count, nil
}

// UpdateChatbot применяет частичное обновление чат-бота. Вложенные
// объекты заменяются целиком, слияния по ключам нет.
func (s *Store) UpdateChatbot(_ context.Context, id int64, patch models.ChatbotPatch) (*models.Chatbot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bot, ok := s.chatbots[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Name != nil {
		bot.Name = *patch.Name
	}
	if patch.Description != nil {
		bot.Description = *patch.Description
	}
	if patch.Status != nil {
		bot.Status = *patch.Status
	}
	if patch.Color != nil {
		bot.Color = *patch.Color
	}
	if patch.Appearance != nil {
		bot.Appearance = *patch.Appearance
	}
	if patch.Settings != nil {
		bot.Settings = *patch.Settings
	}
	if patch.AISettings != nil {
		bot.AISettings = *patch.AISettings
	}
	if patch.Flows != nil {
		bot.Flows = *patch.Flows
	}
	if patch.UpdatedAt != nil {
		bot.UpdatedAt = *patch.UpdatedAt
	} else {
		bot.UpdatedAt = time.Now().UTC()
	}
	s.chatbots[id] = bot
	return &bot, nil
}

// DeleteChatbot удаляет чат-бота и сообщает, существовала ли запись.
// Идентификатор удаленной записи не переиспользуется.
func (s *Store) DeleteChatbot(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chatbots[id]; !ok {
		return false, nil
	}
	delete(s.chatbots, id)
	for i, cid := range s.chatbotOrder {
		if cid == id {
			s.chatbotOrder = append(s.chatbotOrder[:i], s.chatbotOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// --- Диалоги ---

// CreateConversation сохраняет новый диалог с пустым журналом сообщений.
func (s *Store) CreateConversation(_ context.Context, conv models.Conversation) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversationID++
	conv.ID = s.conversationID
	if conv.StartedAt.IsZero() {
		conv.StartedAt = time.Now().UTC()
	}
	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}
	if conv.Metadata == nil {
		conv.Metadata = map[string]any{}
	}
	s.conversations[conv.ID] = conv
	s.conversationOrder = append(s.conversationOrder, conv.ID)
	return &conv, nil
}

// GetConversation возвращает диалог по идентификатору.
func (s *Store) GetConversation(_ context.Context, id int64) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &conv, nil
}

// ListConversationsByChatbotID возвращает диалоги чат-бота в порядке создания.
func (s *Store) ListConversationsByChatbotID(_ context.Context, chatbotID int64) ([]*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Conversation
	for _, id := range s.conversationOrder {
		if conv := s.conversations[id]; conv.ChatbotID == chatbotID {
			copied := conv
			result = append(result, &copied)
		}
	}
	return result, nil
}

// AppendConversationMessage дописывает сообщение в конец журнала диалога.
// Журнал только растет, порядок сообщений совпадает с порядком добавления.
func (s *Store) AppendConversationMessage(_ context.Context, id int64, msg models.Message) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	messages := make([]models.Message, 0, len(conv.Messages)+1)
	messages = append(messages, conv.Messages...)
	messages = append(messages, msg)
	conv.Messages = messages
	s.conversations[id] = conv
	return &conv, nil
}

// --- Шаблоны ---

// ListTemplates возвращает справочник шаблонов в порядке заполнения.
func (s *Store) ListTemplates(_ context.Context) ([]models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Template, 0, len(s.templateOrder))
	for _, id := range s.templateOrder {
		result = append(result, s.templates[id])
	}
	return result, nil
}

// GetTemplate возвращает шаблон по идентификатору.
func (s *Store) GetTemplate(_ context.Context, id int64) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.templates[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &tpl, nil
}

// --- Настройки пользователя ---

// CreateSettings сохраняет настройки пользователя.
func (s *Store) CreateSettings(_ context.Context, st models.Settings) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settingsID++
	st.ID = s.settingsID
	s.settings[st.ID] = st
	s.settingsOrder = append(s.settingsOrder, st.ID)
	return &st, nil
}

// GetSettingsByUserID возвращает настройки пользователя.
func (s *Store) GetSettingsByUserID(_ context.Context, userID int64) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.settingsOrder {
		if st := s.settings[id]; st.UserID == userID {
			return &st, nil
		}
	}
	return nil, models.ErrNotFound
}

// UpdateSettingsByUserID заменяет указанные секции настроек целиком.
func (s *Store) UpdateSettingsByUserID(_ context.Context, userID int64, patch models.SettingsPatch) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.settingsOrder {
		st := s.settings[id]
		if st.UserID != userID {
			continue
		}
		if patch.API != nil {
			st.API = *patch.API
		}
		if patch.Notifications != nil {
			st.Notifications = *patch.Notifications
		}
		if patch.Appearance != nil {
			st.Appearance = *patch.Appearance
		}
		s.settings[id] = st
		return &st, nil
	}
	return nil, models.ErrNotFound
}
