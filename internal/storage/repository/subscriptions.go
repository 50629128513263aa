package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// ToggleSubscription создаёт подписку (userID, courseID), если её нет, иначе
// удаляет. Единственность пары гарантирует ограничение UNIQUE: вставка с
// ON CONFLICT DO NOTHING не создаёт дубликатов при параллельных вызовах.
// Несуществующий курс даёт ErrNotFound.
func (s *Storage) ToggleSubscription(ctx context.Context, userID, courseID int64) (models.ToggleResult, error) {
	const op = "storage.ToggleSubscription"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.GetContext(ctx, &id, `
		INSERT INTO subscriptions (user_id, course_id) VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
		RETURNING id`, userID, courseID)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return models.SubscriptionAdded, nil
	case errors.Is(err, sql.ErrNoRows):
	default:
		err = mapError(err)
		if errors.Is(err, ErrForeignKey) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND course_id = $2`, userID, courseID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return models.SubscriptionRemoved, nil
}

// IsSubscribed сообщает, подписан ли пользователь на курс.
func (s *Storage) IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.IsSubscribed"

	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_id = $1 AND course_id = $2)`, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// SubscriberEmails возвращает различные непустые email подписчиков курса.
func (s *Storage) SubscriberEmails(ctx context.Context, courseID int64) ([]string, error) {
	const op = "storage.SubscriberEmails"

	var emails []string
	err := s.db.SelectContext(ctx, &emails, `
		SELECT DISTINCT u.email
		FROM subscriptions s JOIN users u ON u.id = s.user_id
		WHERE s.course_id = $1 AND u.email <> ''
		ORDER BY u.email`, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}
