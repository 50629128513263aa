// Package payment оформляет оплату курсов и уроков через платёжную сессию
// провайдера и проверяет её статус.
//
// Создание проходит шаги: локальная запись платежа, товар у провайдера, цена,
// сессия, сохранение ссылки. Сбой на любом шаге после создания записи удаляет
// её, так что неоплачиваемых платежей без сессии не остаётся.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// Исходы создания сессии для метрик.
const (
	outcomeCreated = "created"
	outcomeFailed  = "failed"
)

// Repository описывает контракт хранилища платежей и оплачиваемых объектов.
type Repository interface {
	CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	ListPayments(ctx context.Context, scope access.Scope, f models.PaymentFilter, limit, offset int) ([]models.Payment, int, error)
	AttachSession(ctx context.Context, id int64, sessionID, link string) error
	MarkPaid(ctx context.Context, id int64) (bool, error)
	DeletePayment(ctx context.Context, id int64) error
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
}

// Provider клиент платёжного провайдера.
type Provider interface {
	CreateProduct(ctx context.Context, name string) (*paymentprovider.Product, error)
	CreatePrice(ctx context.Context, productID string, amount int64) (*paymentprovider.Price, error)
	CreateCheckoutSession(ctx context.Context, params paymentprovider.CreateSessionParams) (*paymentprovider.Session, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*paymentprovider.Session, error)
}

// Service управляет платежами.
type Service struct {
	repo     Repository
	provider Provider
	policy   access.Payments
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewService создаёт Service.
func NewService(repo Repository, provider Provider, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		log:      log,
		metrics:  m,
	}
}

// item оплачиваемый объект.
type item struct {
	title  string
	amount models.Money
}

// List возвращает страницу платежей: плательщику свои, staff и модераторам все.
func (s *Service) List(ctx context.Context, actor access.Actor, f models.PaymentFilter, p pagination.Params) (models.Page[models.Payment], error) {
	const op = "payment.List"

	if f.Method != "" && !f.Method.Valid() {
		return models.Page[models.Payment]{}, apperr.Validation("payment_method must be cash or transfer")
	}
	switch f.Ordering {
	case "", "payment_date", "-payment_date":
	default:
		return models.Page[models.Payment]{}, apperr.Validation("ordering must be payment_date or -payment_date")
	}

	scope := s.policy.ListScope(actor)
	if scope.Kind == access.ScopeNone {
		return models.NewPage[models.Payment](nil, 0, p.Page, p.PageSize), nil
	}
	payments, count, err := s.repo.ListPayments(ctx, scope, f, p.Limit(), p.Offset())
	if err != nil {
		return models.Page[models.Payment]{}, apperr.Wrap(op, err)
	}
	return models.NewPage(payments, count, p.Page, p.PageSize), nil
}

// Get возвращает платёж.
func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*models.Payment, error) {
	return s.load(ctx, actor, access.ActionRetrieve, id)
}

// Delete удаляет платёж. Доступно плательщику и superuser.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	const op = "payment.Delete"

	if _, err := s.load(ctx, actor, access.ActionDestroy, id); err != nil {
		return err
	}
	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return mapError(op, err)
	}
	return nil
}

// Create создаёт платёж за курс или урок и платёжную сессию у провайдера.
func (s *Service) Create(ctx context.Context, actor access.Actor, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	const op = "payment.Create"

	if err := s.policy.Check(actor, access.ActionCreate, 0); err != nil {
		return nil, err
	}
	if (req.CourseID == nil) == (req.LessonID == nil) {
		return nil, apperr.Validation("specify exactly one of course_id or lesson_id")
	}

	it, err := s.resolveItem(ctx, req)
	if err != nil {
		return nil, err
	}
	if !it.amount.IsPositive() {
		return nil, apperr.Validation("price must be greater than zero")
	}

	payment, err := s.repo.CreatePayment(ctx, models.Payment{
		UserID:   actor.UserID,
		CourseID: req.CourseID,
		LessonID: req.LessonID,
		Amount:   it.amount,
		Method:   models.PaymentMethodTransfer,
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("payment_id", payment.ID))

	session, err := s.openSession(ctx, actor, payment, it)
	if err != nil {
		s.compensate(ctx, log, payment.ID)
		s.metrics.PaymentSession(outcomeFailed)
		log.Error("failed to create payment session", sl.Err(err))
		return nil, err
	}

	s.metrics.PaymentSession(outcomeCreated)
	log.Info("payment session created", slog.String("session_id", session.ID))
	return &models.CreatePaymentResponse{
		Message:     "payment session created",
		PaymentID:   payment.ID,
		PaymentLink: session.URL,
		SessionID:   session.ID,
	}, nil
}

// CheckStatus запрашивает у провайдера статус сессии платежа и отмечает
// платёж оплаченным, если провайдер это подтверждает. Оплаченный платёж
// неоплаченным не становится.
func (s *Service) CheckStatus(ctx context.Context, actor access.Actor, id int64) (*models.PaymentStatus, error) {
	const op = "payment.CheckStatus"

	payment, err := s.load(ctx, actor, access.ActionRetrieve, id)
	if err != nil {
		return nil, err
	}
	if payment.SessionID == "" {
		return nil, apperr.Validation("payment has no checkout session")
	}

	session, err := s.provider.RetrieveCheckoutSession(ctx, payment.SessionID)
	if err != nil {
		return nil, apperr.External("failed to retrieve checkout session", err)
	}

	if session.IsPaid() && !payment.IsPaid {
		if _, err := s.repo.MarkPaid(ctx, payment.ID); err != nil {
			return nil, apperr.Wrap(op, err)
		}
		payment.IsPaid = true
		s.log.Info("payment marked as paid", slog.String("op", op), slog.Int64("payment_id", payment.ID))
	}

	return &models.PaymentStatus{
		PaymentID:             payment.ID,
		SessionID:             payment.SessionID,
		IsPaid:                payment.IsPaid,
		ProviderPaymentStatus: session.PaymentStatus,
		PaymentLink:           payment.PaymentLink,
	}, nil
}

func (s *Service) resolveItem(ctx context.Context, req models.CreatePaymentRequest) (item, error) {
	const op = "payment.resolveItem"

	if req.CourseID != nil {
		c, err := s.repo.GetCourse(ctx, *req.CourseID)
		if errors.Is(err, repository.ErrNotFound) {
			return item{}, apperr.NotFound("course not found")
		}
		if err != nil {
			return item{}, apperr.Wrap(op, err)
		}
		return item{title: "Course: " + c.Title, amount: c.Price}, nil
	}

	l, err := s.repo.GetLesson(ctx, *req.LessonID)
	if errors.Is(err, repository.ErrNotFound) {
		return item{}, apperr.NotFound("lesson not found")
	}
	if err != nil {
		return item{}, apperr.Wrap(op, err)
	}
	c, err := s.repo.GetCourse(ctx, l.CourseID)
	if err != nil {
		return item{}, apperr.Wrap(op, err)
	}
	return item{title: fmt.Sprintf("Lesson: %s (%s)", l.Title, c.Title), amount: l.Price}, nil
}

func (s *Service) openSession(ctx context.Context, actor access.Actor, p *models.Payment, it item) (*paymentprovider.Session, error) {
	const op = "payment.openSession"

	product, err := s.provider.CreateProduct(ctx, it.title)
	if err != nil {
		return nil, apperr.External("failed to create product", err)
	}
	price, err := s.provider.CreatePrice(ctx, product.ID, p.Amount.MinorUnits())
	if err != nil {
		return nil, apperr.External("failed to create price", err)
	}
	session, err := s.provider.CreateCheckoutSession(ctx, paymentprovider.CreateSessionParams{
		PriceID:       price.ID,
		CustomerEmail: actor.Email,
		Metadata: map[string]string{
			"payment_id": strconv.FormatInt(p.ID, 10),
			"user_email": actor.Email,
			"item_title": it.title,
		},
	})
	if err != nil {
		return nil, apperr.External("failed to create checkout session", err)
	}
	if err := s.repo.AttachSession(ctx, p.ID, session.ID, session.URL); err != nil {
		return nil, apperr.External("failed to save checkout session", fmt.Errorf("%s: %w", op, err))
	}
	return session, nil
}

// compensate удаляет платёж, для которого не удалось открыть сессию.
func (s *Service) compensate(ctx context.Context, log *slog.Logger, id int64) {
	if err := s.repo.DeletePayment(context.WithoutCancel(ctx), id); err != nil {
		log.Error("failed to delete payment after session failure", sl.Err(err))
	}
}

func (s *Service) load(ctx context.Context, actor access.Actor, action access.Action, id int64) (*models.Payment, error) {
	const op = "payment.load"

	if !actor.IsAuthenticated() {
		return nil, s.policy.Check(actor, action, 0)
	}
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, mapError(op, err)
	}
	if err := s.policy.Check(actor, action, p.UserID); err != nil {
		return nil, err
	}
	return p, nil
}

func mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("payment not found")
	}
	return apperr.Wrap(op, err)
}
