package models

import "time"

// ModeratorsGroup имя группы модераторов.
const ModeratorsGroup = "moderators"

// User зарегистрированный пользователь. Идентифицируется по email.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Phone        string     `db:"phone" json:"phone"`
	City         string     `db:"city" json:"city"`
	Avatar       string     `db:"avatar" json:"avatar"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	IsStaff      bool       `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	IsModerator  bool       `db:"is_moderator" json:"is_moderator"`
	LastLogin    *time.Time `db:"last_login" json:"last_login"`
	DateJoined   time.Time  `db:"date_joined" json:"date_joined"`
}

// PublicUser представление пользователя для чужих глаз: без телефона и служебных флагов.
type PublicUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	City      string `json:"city"`
	Avatar    string `json:"avatar"`
}

// Public возвращает сокращённое представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		City:      u.City,
		Avatar:    u.Avatar,
	}
}

// RegisterRequest данные регистрации.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Phone     string `json:"phone" validate:"max=35"`
	City      string `json:"city" validate:"max=100"`
	Avatar    string `json:"avatar" validate:"max=255"`
}

// ProfileUpdate изменяемые поля профиля. nil означает «не менять».
// Email изменить нельзя.
type ProfileUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=35"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=255"`
}

// IsEmpty сообщает, что ни одно поле не задано.
func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.City == nil && p.Avatar == nil
}
