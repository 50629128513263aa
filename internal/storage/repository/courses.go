package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

const courseColumns = `c.id, c.title, c.description, c.preview, c.owner_id, c.price, c.created_at, c.updated_at`

// courseViewColumns добавляет число уроков и признак подписки зрителя ($1).
const courseViewColumns = courseColumns + `,
	(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count,
	EXISTS (SELECT 1 FROM subscriptions s WHERE s.course_id = c.id AND s.user_id = $1) AS is_subscribed`

// CreateCourse сохраняет курс и возвращает его вместе с ID и метками времени.
func (s *Storage) CreateCourse(ctx context.Context, c models.Course) (*models.Course, error) {
	const op = "storage.CreateCourse"

	var created models.Course
	query := `INSERT INTO courses (title, description, preview, owner_id, price)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, title, description, preview, owner_id, price, created_at, updated_at`
	err := s.db.GetContext(ctx, &created, query, c.Title, c.Description, c.Preview, c.OwnerID, c.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &created, nil
}

// GetCourse возвращает курс по ID.
func (s *Storage) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.GetCourse"

	var c models.Course
	if err := s.db.GetContext(ctx, &c, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &c, nil
}

// GetCourseView возвращает курс с числом уроков и признаком подписки viewerID.
func (s *Storage) GetCourseView(ctx context.Context, id, viewerID int64) (*models.CourseView, error) {
	const op = "storage.GetCourseView"

	var v models.CourseView
	query := `SELECT ` + courseViewColumns + ` FROM courses c WHERE c.id = $2`
	if err := s.db.GetContext(ctx, &v, query, viewerID, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &v, nil
}

// ListCourses возвращает страницу курсов в области scope и их общее число.
func (s *Storage) ListCourses(ctx context.Context, scope access.Scope, viewerID int64, limit, offset int) ([]models.CourseView, int, error) {
	const op = "storage.ListCourses"
	if scope.Kind == access.ScopeNone {
		return nil, 0, nil
	}

	w := &where{}
	w.scope("c.owner_id", scope)

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses c`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	// $1 занят зрителем, условия сдвигаются на один.
	w = &where{args: []any{viewerID}}
	w.scope("c.owner_id", scope)
	n := w.next()
	query := fmt.Sprintf(`SELECT %s FROM courses c%s ORDER BY c.id LIMIT $%d OFFSET $%d`,
		courseViewColumns, w.String(), n, n+1)

	var courses []models.CourseView
	if err := s.db.SelectContext(ctx, &courses, query, append(w.args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return courses, count, nil
}

// UpdateCourse меняет заданные поля курса и возвращает обновлённую запись.
// updated_at не трогается: им управляет TouchCourse.
func (s *Storage) UpdateCourse(ctx context.Context, id int64, upd models.UpdateCourseRequest) (*models.Course, error) {
	const op = "storage.UpdateCourse"

	var c models.Course
	err := s.db.GetContext(ctx, &c, `
		UPDATE courses c SET
			title       = COALESCE($2, c.title),
			description = COALESCE($3, c.description),
			preview     = COALESCE($4, c.preview),
			price       = COALESCE($5, c.price)
		WHERE c.id = $1
		RETURNING `+courseColumns,
		id, upd.Title, upd.Description, upd.Preview, upd.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &c, nil
}

// DeleteCourse удаляет курс вместе с уроками, подписками и платежами.
func (s *Storage) DeleteCourse(ctx context.Context, id int64) error {
	const op = "storage.DeleteCourse"

	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// TouchCourse атомарно выставляет updated_at = now и возвращает прежнее
// значение. Строка блокируется на время обмена, так что два параллельных
// вызова увидят разные прежние значения.
func (s *Storage) TouchCourse(ctx context.Context, id int64, now time.Time) (time.Time, error) {
	const op = "storage.TouchCourse"

	var prev time.Time
	err := s.db.GetContext(ctx, &prev, `
		UPDATE courses c SET updated_at = $2
		FROM (SELECT id, updated_at FROM courses WHERE id = $1 FOR UPDATE) old
		WHERE c.id = old.id
		RETURNING old.updated_at`, id, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return prev, nil
}
