// Package lesson реализует операции над уроками.
package lesson

import (
	"context"
	"errors"
	"regexp"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

var youtubeURL = regexp.MustCompile(`^https?://(www\.)?(youtube\.com|youtu\.be)/.*`)

// ValidateVideoURL разрешает только ссылки на YouTube. Пустая строка допустима.
func ValidateVideoURL(url string) error {
	if url == "" || youtubeURL.MatchString(url) {
		return nil
	}
	return apperr.Validation("video_url: only youtube.com links are allowed")
}

// Repository описывает контракт хранилища уроков.
type Repository interface {
	CreateLesson(ctx context.Context, l models.Lesson) (*models.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context, scope access.Scope, limit, offset int) ([]models.Lesson, int, error)
	UpdateLesson(ctx context.Context, id int64, upd models.UpdateLessonRequest) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
}

// Courses даёт доступ к курсам уроков.
type Courses interface {
	Lookup(ctx context.Context, id int64) (*models.Course, error)
	CourseChanged(ctx context.Context, id int64)
}

// Service управляет уроками.
type Service struct {
	repo    Repository
	courses Courses
	policy  access.Materials
}

// NewService создаёт Service.
func NewService(repo Repository, courses Courses) *Service {
	return &Service{repo: repo, courses: courses}
}

// List возвращает страницу уроков: модератору все, остальным свои.
func (s *Service) List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.Lesson], error) {
	const op = "lesson.List"

	scope := s.policy.ListScope(actor)
	if scope.Kind == access.ScopeNone {
		return models.NewPage[models.Lesson](nil, 0, p.Page, p.PageSize), nil
	}
	lessons, count, err := s.repo.ListLessons(ctx, scope, p.Limit(), p.Offset())
	if err != nil {
		return models.Page[models.Lesson]{}, apperr.Wrap(op, err)
	}
	return models.NewPage(lessons, count, p.Page, p.PageSize), nil
}

// Create создаёт урок в курсе, видимом actor.
func (s *Service) Create(ctx context.Context, actor access.Actor, req models.CreateLessonRequest) (*models.Lesson, error) {
	const op = "lesson.Create"

	if err := s.policy.Check(actor, access.ActionCreate, 0); err != nil {
		return nil, err
	}
	if err := ValidateVideoURL(req.VideoURL); err != nil {
		return nil, err
	}
	price := models.Money{}
	if req.Price != nil {
		price = req.Price.Rounded()
		if err := validatePrice(price); err != nil {
			return nil, err
		}
	}

	course, err := s.courses.Lookup(ctx, req.CourseID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.Validation("course does not exist")
	}
	if err != nil {
		return nil, err
	}
	if err := s.policy.Check(actor, access.ActionRetrieve, course.OwnerID); err != nil {
		return nil, apperr.Validation("course does not exist")
	}

	created, err := s.repo.CreateLesson(ctx, models.Lesson{
		CourseID:    course.ID,
		OwnerID:     actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		Preview:     req.Preview,
		VideoURL:    req.VideoURL,
		Price:       price,
	})
	if err != nil {
		return nil, mapError(op, err)
	}
	s.courses.CourseChanged(ctx, course.ID)
	return created, nil
}

// Get возвращает урок.
func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*models.Lesson, error) {
	return s.load(ctx, actor, access.ActionRetrieve, id)
}

// Update меняет поля урока и сообщает об изменении курса.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, upd models.UpdateLessonRequest) (*models.Lesson, error) {
	const op = "lesson.Update"

	if _, err := s.load(ctx, actor, access.ActionUpdate, id); err != nil {
		return nil, err
	}
	if upd.VideoURL != nil {
		if err := ValidateVideoURL(*upd.VideoURL); err != nil {
			return nil, err
		}
	}
	if upd.Price != nil {
		price := upd.Price.Rounded()
		if err := validatePrice(price); err != nil {
			return nil, err
		}
		upd.Price = &price
	}

	updated, err := s.repo.UpdateLesson(ctx, id, upd)
	if err != nil {
		return nil, mapError(op, err)
	}
	s.courses.CourseChanged(ctx, updated.CourseID)
	return updated, nil
}

// Delete удаляет урок. Доступно только владельцу.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	const op = "lesson.Delete"

	if _, err := s.load(ctx, actor, access.ActionDestroy, id); err != nil {
		return err
	}
	if err := s.repo.DeleteLesson(ctx, id); err != nil {
		return mapError(op, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, actor access.Actor, action access.Action, id int64) (*models.Lesson, error) {
	const op = "lesson.load"

	if !actor.IsAuthenticated() {
		return nil, s.policy.Check(actor, action, 0)
	}
	l, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, mapError(op, err)
	}
	if err := s.policy.Check(actor, action, l.OwnerID); err != nil {
		return nil, err
	}
	return l, nil
}

// validatePrice проверяет уже округлённую цену урока. Ноль допустим.
func validatePrice(price models.Money) error {
	if price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	if price.Overflows() {
		return apperr.Validation("price must not exceed " + models.MaxMoneyText)
	}
	return nil
}

func mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lesson not found")
	}
	if errors.Is(err, repository.ErrOutOfRange) {
		return apperr.Validation("value out of range")
	}
	return apperr.Wrap(op, err)
}
