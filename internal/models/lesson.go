package models

import "time"

// Lesson урок курса.
type Lesson struct {
	ID          int64     `db:"id" json:"id"`
	CourseID    int64     `db:"course_id" json:"course"`
	OwnerID     int64     `db:"owner_id" json:"owner"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Preview     string    `db:"preview" json:"preview"`
	VideoURL    string    `db:"video_url" json:"video_url"`
	Price       Money     `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateLessonRequest данные нового урока.
type CreateLessonRequest struct {
	CourseID    int64  `json:"course" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Preview     string `json:"preview" validate:"max=255"`
	VideoURL    string `json:"video_url" validate:"max=500"`
	Price       *Money `json:"price"`
}

// UpdateLessonRequest изменяемые поля урока. nil означает «не менять».
type UpdateLessonRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Preview     *string `json:"preview" validate:"omitempty,max=255"`
	VideoURL    *string `json:"video_url" validate:"omitempty,max=500"`
	Price       *Money  `json:"price"`
}
