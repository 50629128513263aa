// Package course реализует операции над курсами: права владельца и
// модератора, кэширование записей и оповещение подписчиков об изменениях.
package course

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// Repository описывает контракт хранилища курсов.
type Repository interface {
	CreateCourse(ctx context.Context, c models.Course) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetCourseView(ctx context.Context, id, viewerID int64) (*models.CourseView, error)
	ListCourses(ctx context.Context, scope access.Scope, viewerID int64, limit, offset int) ([]models.CourseView, int, error)
	ListCourseLessons(ctx context.Context, courseID int64) ([]models.Lesson, error)
	UpdateCourse(ctx context.Context, id int64, upd models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// Cache кэширует записи курсов.
type Cache interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, bool, error)
	SetCourse(ctx context.Context, course *models.Course) error
	InvalidateCourse(ctx context.Context, id int64) error
}

// Notifier получает сообщения об изменении курса.
type Notifier interface {
	CourseChanged(ctx context.Context, course *models.Course) (bool, error)
}

// Service управляет курсами.
type Service struct {
	repo     Repository
	cache    Cache
	notifier Notifier
	policy   access.Materials
	log      *slog.Logger
}

// NewService создаёт Service.
func NewService(repo Repository, cache Cache, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// List возвращает страницу курсов: модератору все, остальным свои.
func (s *Service) List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.CourseView], error) {
	const op = "course.List"

	scope := s.policy.ListScope(actor)
	if scope.Kind == access.ScopeNone {
		return models.NewPage[models.CourseView](nil, 0, p.Page, p.PageSize), nil
	}
	courses, count, err := s.repo.ListCourses(ctx, scope, actor.UserID, p.Limit(), p.Offset())
	if err != nil {
		return models.Page[models.CourseView]{}, apperr.Wrap(op, err)
	}
	return models.NewPage(courses, count, p.Page, p.PageSize), nil
}

// Create создаёт курс, владельцем которого становится actor.
func (s *Service) Create(ctx context.Context, actor access.Actor, req models.CreateCourseRequest) (*models.CourseView, error) {
	const op = "course.Create"

	if err := s.policy.Check(actor, access.ActionCreate, 0); err != nil {
		return nil, err
	}
	price := models.DefaultCoursePrice
	if req.Price != nil {
		price = req.Price.Rounded()
		if err := validatePrice(price); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.CreateCourse(ctx, models.Course{
		Title:       req.Title,
		Description: req.Description,
		Preview:     req.Preview,
		OwnerID:     actor.UserID,
		Price:       price,
	})
	if err != nil {
		return nil, mapError(op, err)
	}
	return &models.CourseView{Course: *created, Lessons: []models.Lesson{}}, nil
}

// Get возвращает курс вместе с уроками.
func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*models.CourseView, error) {
	const op = "course.Get"

	if err := s.authorize(ctx, actor, access.ActionRetrieve, id); err != nil {
		return nil, err
	}
	view, err := s.repo.GetCourseView(ctx, id, actor.UserID)
	if err != nil {
		return nil, mapError(op, err)
	}
	lessons, err := s.repo.ListCourseLessons(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	view.Lessons = lessons
	return view, nil
}

// Update меняет поля курса и сообщает об изменении подписчикам.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, upd models.UpdateCourseRequest) (*models.CourseView, error) {
	const op = "course.Update"

	if err := s.authorize(ctx, actor, access.ActionUpdate, id); err != nil {
		return nil, err
	}
	if upd.Price != nil {
		price := upd.Price.Rounded()
		if err := validatePrice(price); err != nil {
			return nil, err
		}
		upd.Price = &price
	}

	updated, err := s.repo.UpdateCourse(ctx, id, upd)
	if err != nil {
		return nil, mapError(op, err)
	}
	s.invalidate(ctx, id)
	s.courseChanged(ctx, updated)

	view, err := s.repo.GetCourseView(ctx, id, actor.UserID)
	if err != nil {
		return nil, mapError(op, err)
	}
	return view, nil
}

// Delete удаляет курс. Доступно только владельцу.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	const op = "course.Delete"

	if err := s.authorize(ctx, actor, access.ActionDestroy, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return mapError(op, err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Lookup возвращает запись курса, сначала из кэша.
// Ошибки кэша логируются, чтение переходит в базу.
func (s *Service) Lookup(ctx context.Context, id int64) (*models.Course, error) {
	const op = "course.Lookup"
	log := s.log.With(slog.String("op", op), slog.Int64("course_id", id))

	if s.cache != nil {
		cached, found, err := s.cache.GetCourse(ctx, id)
		if err != nil {
			log.Warn("course cache read failed", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	c, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, mapError(op, err)
	}
	if s.cache != nil {
		if err := s.cache.SetCourse(ctx, c); err != nil {
			log.Warn("course cache write failed", sl.Err(err))
		}
	}
	return c, nil
}

// CourseChanged сообщает об изменении курса id, например при правке его урока.
func (s *Service) CourseChanged(ctx context.Context, id int64) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		s.log.Error("failed to load changed course", slog.Int64("course_id", id), sl.Err(err))
		return
	}
	s.courseChanged(ctx, c)
}

func (s *Service) authorize(ctx context.Context, actor access.Actor, action access.Action, id int64) error {
	if !actor.IsAuthenticated() {
		return s.policy.Check(actor, action, 0)
	}
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return err
	}
	return s.policy.Check(actor, action, c.OwnerID)
}

func (s *Service) courseChanged(ctx context.Context, c *models.Course) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.CourseChanged(ctx, c); err != nil {
		s.log.Error("failed to register course change", slog.Int64("course_id", c.ID), sl.Err(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCourse(ctx, id); err != nil {
		s.log.Warn("course cache invalidation failed", slog.Int64("course_id", id), sl.Err(err))
	}
}

// validatePrice проверяет уже округлённую цену курса.
func validatePrice(price models.Money) error {
	if !price.IsPositive() {
		return apperr.Validation("price must be greater than zero")
	}
	if price.Overflows() {
		return apperr.Validation("price must not exceed " + models.MaxMoneyText)
	}
	return nil
}

func mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("course not found")
	}
	if errors.Is(err, repository.ErrOutOfRange) {
		return apperr.Validation("value out of range")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(op, err)
}
