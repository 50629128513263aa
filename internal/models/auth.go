package models

// LoginRequest учётные данные для получения пары токенов.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest токен обновления.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPair пара токенов доступа и обновления.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
