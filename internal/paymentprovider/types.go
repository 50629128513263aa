package paymentprovider

import "fmt"

// Product товар у провайдера.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Price цена товара в минимальных единицах валюты.
type Price struct {
	ID         string `json:"id"`
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// CreateSessionParams параметры платёжной сессии.
type CreateSessionParams struct {
	PriceID       string
	CustomerEmail string
	Metadata      map[string]string
}

// Session платёжная сессия на стороне провайдера.
type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentStatusPaid статус оплаченной сессии.
const PaymentStatusPaid = "paid"

// IsPaid сообщает, что провайдер считает сессию оплаченной.
func (s *Session) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// APIError ошибка, которую вернул провайдер.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment provider: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}
