package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

const paymentColumns = `p.id, p.user_id, p.course_id, p.lesson_id, p.amount, p.method, p.is_paid,
	p.session_id, p.payment_link, p.payment_date`

// CreatePayment сохраняет неоплаченный платёж и возвращает его.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"

	var created models.Payment
	query := `INSERT INTO payments (user_id, course_id, lesson_id, amount, method, is_paid)
			  VALUES ($1, $2, $3, $4, $5, FALSE)
			  RETURNING id, user_id, course_id, lesson_id, amount, method, is_paid, session_id, payment_link, payment_date`
	err := s.db.GetContext(ctx, &created, query, p.UserID, p.CourseID, p.LessonID, p.Amount, p.Method)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &created, nil
}

// GetPayment возвращает платёж по ID.
func (s *Storage) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "storage.GetPayment"

	var p models.Payment
	if err := s.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &p, nil
}

// ListPayments возвращает страницу платежей в области scope с фильтрами.
func (s *Storage) ListPayments(ctx context.Context, scope access.Scope, f models.PaymentFilter, limit, offset int) ([]models.Payment, int, error) {
	const op = "storage.ListPayments"
	if scope.Kind == access.ScopeNone {
		return nil, 0, nil
	}

	w := &where{}
	w.scope("p.user_id", scope)
	if f.CourseID != nil {
		w.add("p.course_id = ?", *f.CourseID)
	}
	if f.LessonID != nil {
		w.add("p.lesson_id = ?", *f.LessonID)
	}
	if f.Method != "" {
		w.add("p.method = ?", string(f.Method))
	}

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM payments p`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	order := "p.id"
	switch f.Ordering {
	case "payment_date":
		order = "p.payment_date, p.id"
	case "-payment_date":
		order = "p.payment_date DESC, p.id DESC"
	}

	n := w.next()
	query := fmt.Sprintf(`SELECT %s FROM payments p%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		paymentColumns, w.String(), order, n, n+1)

	var payments []models.Payment
	if err := s.db.SelectContext(ctx, &payments, query, append(w.args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return payments, count, nil
}

// AttachSession сохраняет идентификатор платёжной сессии и ссылку на оплату.
func (s *Storage) AttachSession(ctx context.Context, id int64, sessionID, link string) error {
	const op = "storage.AttachSession"

	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET session_id = $2, payment_link = $3 WHERE id = $1`, id, sessionID, link)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// MarkPaid отмечает платёж оплаченным. Переход только в одну сторону:
// возвращает true, если флаг был снят и теперь выставлен.
func (s *Storage) MarkPaid(ctx context.Context, id int64) (bool, error) {
	const op = "storage.MarkPaid"

	res, err := s.db.ExecContext(ctx, `UPDATE payments SET is_paid = TRUE WHERE id = $1 AND NOT is_paid`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// DeletePayment удаляет платёж.
func (s *Storage) DeletePayment(ctx context.Context, id int64) error {
	const op = "storage.DeletePayment"

	res, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
