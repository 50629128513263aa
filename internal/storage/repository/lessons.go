package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

const lessonColumns = `l.id, l.course_id, l.owner_id, l.title, l.description, l.preview, l.video_url, l.price,
	l.created_at, l.updated_at`

// CreateLesson сохраняет урок. Несуществующий курс даёт ErrForeignKey.
func (s *Storage) CreateLesson(ctx context.Context, l models.Lesson) (*models.Lesson, error) {
	const op = "storage.CreateLesson"

	var created models.Lesson
	query := `INSERT INTO lessons (course_id, owner_id, title, description, preview, video_url, price)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, course_id, owner_id, title, description, preview, video_url, price, created_at, updated_at`
	err := s.db.GetContext(ctx, &created, query,
		l.CourseID, l.OwnerID, l.Title, l.Description, l.Preview, l.VideoURL, l.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &created, nil
}

// GetLesson возвращает урок по ID.
func (s *Storage) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	const op = "storage.GetLesson"

	var l models.Lesson
	if err := s.db.GetContext(ctx, &l, `SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &l, nil
}

// ListLessons возвращает страницу уроков в области scope и их общее число.
func (s *Storage) ListLessons(ctx context.Context, scope access.Scope, limit, offset int) ([]models.Lesson, int, error) {
	const op = "storage.ListLessons"
	if scope.Kind == access.ScopeNone {
		return nil, 0, nil
	}

	w := &where{}
	w.scope("l.owner_id", scope)

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lessons l`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	n := w.next()
	query := fmt.Sprintf(`SELECT %s FROM lessons l%s ORDER BY l.id LIMIT $%d OFFSET $%d`,
		lessonColumns, w.String(), n, n+1)

	var lessons []models.Lesson
	if err := s.db.SelectContext(ctx, &lessons, query, append(w.args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return lessons, count, nil
}

// ListCourseLessons возвращает все уроки курса по порядку создания.
func (s *Storage) ListCourseLessons(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	const op = "storage.ListCourseLessons"

	var lessons []models.Lesson
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.course_id = $1 ORDER BY l.id`
	if err := s.db.SelectContext(ctx, &lessons, query, courseID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lessons, nil
}

// UpdateLesson меняет заданные поля урока и возвращает обновлённую запись.
func (s *Storage) UpdateLesson(ctx context.Context, id int64, upd models.UpdateLessonRequest) (*models.Lesson, error) {
	const op = "storage.UpdateLesson"

	var l models.Lesson
	err := s.db.GetContext(ctx, &l, `
		UPDATE lessons l SET
			title       = COALESCE($2, l.title),
			description = COALESCE($3, l.description),
			preview     = COALESCE($4, l.preview),
			video_url   = COALESCE($5, l.video_url),
			price       = COALESCE($6, l.price),
			updated_at  = now()
		WHERE l.id = $1
		RETURNING `+lessonColumns,
		id, upd.Title, upd.Description, upd.Preview, upd.VideoURL, upd.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &l, nil
}

// DeleteLesson удаляет урок.
func (s *Storage) DeleteLesson(ctx context.Context, id int64) error {
	const op = "storage.DeleteLesson"

	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
