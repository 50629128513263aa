// Package user реализует операции над учётными записями пользователей.
package user

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// Repository описывает контракт хранилища пользователей.
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service управляет пользователями с учётом политики access.Users.
type Service struct {
	repo   Repository
	policy access.Users
}

// NewService создаёт Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List возвращает страницу пользователей. Доступно только staff и superuser.
func (s *Service) List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.User], error) {
	const op = "user.List"

	if err := s.policy.Check(actor, access.ActionList, 0); err != nil {
		return models.Page[models.User]{}, err
	}
	users, count, err := s.repo.ListUsers(ctx, p.Limit(), p.Offset())
	if err != nil {
		return models.Page[models.User]{}, apperr.Wrap(op, err)
	}
	return models.NewPage(users, count, p.Page, p.PageSize), nil
}

// Get возвращает пользователя id.
func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*models.User, error) {
	const op = "user.Get"

	if err := s.policy.Check(actor, access.ActionRetrieve, id); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// UpdateProfile меняет поля профиля. Email не меняется.
func (s *Service) UpdateProfile(ctx context.Context, actor access.Actor, id int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "user.UpdateProfile"

	if err := s.policy.Check(actor, access.ActionUpdate, id); err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return nil, apperr.Validation("no fields to update")
	}
	u, err := s.repo.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// Delete удаляет учётную запись вместе с принадлежащими ей данными.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	const op = "user.Delete"

	if err := s.policy.Check(actor, access.ActionDestroy, id); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return mapError(op, err)
	}
	return nil
}

func mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	return apperr.Wrap(op, err)
}
