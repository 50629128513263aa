package models

import "time"

// Subscription подписка пользователя на курс. На пару (пользователь, курс)
// существует не больше одной записи; само существование и есть подписка.
type Subscription struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user"`
	CourseID  int64     `db:"course_id" json:"course"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ToggleRequest запрос на переключение подписки.
type ToggleRequest struct {
	CourseID *int64 `json:"course_id"`
}

// ToggleResult результат переключения подписки.
type ToggleResult string

// Результаты переключения.
const (
	SubscriptionAdded   ToggleResult = "added"
	SubscriptionRemoved ToggleResult = "removed"
)
