package models

import "time"

// PaymentMethod способ оплаты.
type PaymentMethod string

// Способы оплаты.
const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Valid сообщает, что способ оплаты известен.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// Payment попытка оплаты курса или урока. Ссылается ровно на один из них.
type Payment struct {
	ID          int64         `db:"id" json:"id"`
	UserID      int64         `db:"user_id" json:"user"`
	CourseID    *int64        `db:"course_id" json:"course"`
	LessonID    *int64        `db:"lesson_id" json:"lesson"`
	Amount      Money         `db:"amount" json:"amount"`
	Method      PaymentMethod `db:"method" json:"payment_method"`
	IsPaid      bool          `db:"is_paid" json:"is_paid"`
	SessionID   string        `db:"session_id" json:"session_id"`
	PaymentLink string        `db:"payment_link" json:"payment_link"`
	PaymentDate time.Time     `db:"payment_date" json:"payment_date"`
}

// PaymentFilter фильтры и сортировка списка платежей.
type PaymentFilter struct {
	CourseID *int64
	LessonID *int64
	Method   PaymentMethod
	// Ordering "payment_date" или "-payment_date".
	Ordering string
}

// CreatePaymentRequest запрос на оплату курса или урока.
type CreatePaymentRequest struct {
	CourseID *int64 `json:"course_id" validate:"omitempty,gt=0"`
	LessonID *int64 `json:"lesson_id" validate:"omitempty,gt=0"`
}

// CreatePaymentResponse ответ на создание платёжной сессии.
type CreatePaymentResponse struct {
	Message     string `json:"message"`
	PaymentID   int64  `json:"payment_id"`
	PaymentLink string `json:"payment_link"`
	SessionID   string `json:"session_id"`
}

// PaymentStatus результат проверки статуса платежа у провайдера.
type PaymentStatus struct {
	PaymentID             int64  `json:"payment_id"`
	SessionID             string `json:"session_id"`
	IsPaid                bool   `json:"is_paid"`
	ProviderPaymentStatus string `json:"provider_payment_status"`
	PaymentLink           string `json:"payment_link"`
}
