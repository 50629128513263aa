// Package subscription переключает подписку пользователя на курс.
package subscription

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// Repository атомарно переключает подписку.
type Repository interface {
	ToggleSubscription(ctx context.Context, userID, courseID int64) (models.ToggleResult, error)
}

// Service переключает подписки.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создаёт Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Toggle подписывает actor на курс, если подписки нет, иначе отписывает.
// Два последовательных вызова возвращают состояние к исходному.
func (s *Service) Toggle(ctx context.Context, actor access.Actor, req models.ToggleRequest) (models.ToggleResult, error) {
	const op = "subscription.Toggle"

	if !actor.IsAuthenticated() {
		return "", apperr.Unauthenticated("authentication credentials were not provided")
	}
	if req.CourseID == nil || *req.CourseID <= 0 {
		return "", apperr.Validation("course_id required")
	}

	result, err := s.repo.ToggleSubscription(ctx, actor.UserID, *req.CourseID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.NotFound("course not found")
	}
	if err != nil {
		return "", apperr.Wrap(op, err)
	}
	s.log.Info("subscription toggled",
		slog.String("op", op),
		slog.Int64("user_id", actor.UserID),
		slog.Int64("course_id", *req.CourseID),
		slog.String("result", string(result)),
	)
	return result, nil
}
