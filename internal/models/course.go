package models

import "time"

// DefaultCoursePrice цена курса, если она не указана при создании.
var DefaultCoursePrice = MustMoney("10000.00")

// Course курс. Принадлежит ровно одному пользователю.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Preview     string    `db:"preview" json:"preview"`
	OwnerID     int64     `db:"owner_id" json:"owner"`
	Price       Money     `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseView представление курса в ответах API.
type CourseView struct {
	Course
	LessonCount  int      `db:"lesson_count" json:"lesson_count"`
	IsSubscribed bool     `db:"is_subscribed" json:"is_subscribed"`
	Lessons      []Lesson `db:"-" json:"lessons,omitempty"`
}

// CreateCourseRequest данные нового курса.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Preview     string `json:"preview" validate:"max=255"`
	Price       *Money `json:"price"`
}

// UpdateCourseRequest изменяемые поля курса. nil означает «не менять».
type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Preview     *string `json:"preview" validate:"omitempty,max=255"`
	Price       *Money  `json:"price"`
}
