// Package admin содержит административные операции над пользователями:
// создание суперпользователя и назначение модератора.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/lib/password"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// ErrEmptyCredentials не задан email или пароль.
var ErrEmptyCredentials = errors.New("email and password are required")

// Repository операции хранилища, нужные администрированию.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	AddUserToGroup(ctx context.Context, userID int64, name string) error
}

// Service выполняет административные операции.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создаёт Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateSuperuser создаёт активного пользователя с правами staff и superuser.
func (s *Service) CreateSuperuser(ctx context.Context, email, rawPassword string) (int64, error) {
	const op = "admin.CreateSuperuser"
	if email == "" || rawPassword == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrEmptyCredentials)
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: user %s already exists: %w", op, email, err)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("superuser created", slog.Int64("user_id", id), slog.String("email", email))
	return id, nil
}

// AddModerator включает пользователя с данным email в группу модераторов.
func (s *Service) AddModerator(ctx context.Context, email string) error {
	const op = "admin.AddModerator"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.AddUserToGroup(ctx, user.ID, models.ModeratorsGroup); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user added to moderators", slog.Int64("user_id", user.ID))
	return nil
}
