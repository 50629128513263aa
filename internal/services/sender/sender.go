// Package sender выполняет рассылку писем подписчикам курса.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// SubscriberRepository возвращает адреса подписчиков курса.
type SubscriberRepository interface {
	SubscriberEmails(ctx context.Context, courseID int64) ([]string, error)
}

// Mailer отправляет письмо.
type Mailer interface {
	Send(ctx context.Context, msg smtp.Message) error
}

// Service рассылает оповещения об изменении курса.
type Service struct {
	repo   SubscriberRepository
	mailer Mailer
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo SubscriberRepository, mailer Mailer, log *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, log: log}
}

// NotifySubscribers отправляет одно письмо всем подписчикам курса из args.
// Без подписчиков письмо не отправляется.
func (s *Service) NotifySubscribers(ctx context.Context, raw json.RawMessage) (string, error) {
	const op = "sender.NotifySubscribers"

	var args models.NotifySubscribersArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("%s: invalid args: %w", op, err)
	}

	emails, err := s.repo.SubscriberEmails(ctx, args.CourseID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(emails) == 0 {
		return "no subscribers", nil
	}

	msg := smtp.Message{
		To:      emails,
		Subject: "Course update: " + args.CourseTitle,
		Body: fmt.Sprintf("Hello!\n\nThe course \"%s\" you are subscribed to has been updated. "+
			"Check out the new materials.", args.CourseTitle),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Sprintf("failed to notify %d subscribers", len(emails)), fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscribers notified", slog.Int64("course_id", args.CourseID), slog.Int("count", len(emails)))
	return fmt.Sprintf("notified %d subscribers", len(emails)), nil
}
