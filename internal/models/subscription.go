package models

import "time"

// Статусы подписки пользователя на тарифный план.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// Subscription связывает пользователя с тарифным планом.
// По соглашению у пользователя ровно одна активная подписка,
// инвариант поддерживается на уровне бизнес-логики.
type Subscription struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`      // Владелец подписки
	PlanID      string    `json:"planId"`      // Ссылка на тарифный план
	Status      string    `json:"status"`      // active или canceled
	StartDate   time.Time `json:"startDate"`   // Начало оплаченного периода
	EndDate     time.Time `json:"endDate"`     // Конец оплаченного периода
	RenewalDate time.Time `json:"renewalDate"` // Дата следующего продления
}

// SubscriptionPatch описывает частичное обновление подписки,
// используется при смене тарифа.
type SubscriptionPatch struct {
	PlanID      *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
	RenewalDate *time.Time
}

// RenewalNotice — сообщение для очереди уведомлений о скором продлении
// подписки, публикуется планировщиком и потребляется отправителем писем.
type RenewalNotice struct {
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	PlanName    string    `json:"planName"`
	Price       int       `json:"price"`
	RenewalDate time.Time `json:"renewalDate"`
}
