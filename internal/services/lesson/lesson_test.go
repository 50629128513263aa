package lesson

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateLesson(ctx context.Context, l models.Lesson) (*models.Lesson, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *RepoMock) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *RepoMock) ListLessons(ctx context.Context, scope access.Scope, limit, offset int) ([]models.Lesson, int, error) {
	args := m.Called(ctx, scope, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Lesson), args.Int(1), args.Error(2)
}

func (m *RepoMock) UpdateLesson(ctx context.Context, id int64, upd models.UpdateLessonRequest) (*models.Lesson, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *RepoMock) DeleteLesson(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// fakeCourses курсы в памяти с журналом изменений.
type fakeCourses struct {
	courses map[int64]models.Course
	changed []int64
}

func (f *fakeCourses) Lookup(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperr.NotFound("course not found")
	}
	return &c, nil
}

func (f *fakeCourses) CourseChanged(_ context.Context, id int64) {
	f.changed = append(f.changed, id)
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{courses: map[int64]models.Course{
		10: {ID: 10, OwnerID: 1, Title: "Go"},
	}}
}

func TestValidateVideoURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: ""},
		{url: "https://www.youtube.com/watch?v=abc"},
		{url: "http://youtube.com/watch?v=abc"},
		{url: "https://youtu.be/abc"},
		{url: "https://vimeo.com/123", wantErr: true},
		{url: "https://youtube.com.evil.org/x", wantErr: true},
		{url: "ftp://youtube.com/x", wantErr: true},
		{url: "youtube.com/watch", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateVideoURL(tt.url)
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		req      models.CreateLessonRequest
		wantKind apperr.Kind
		wantErr  bool
	}{
		{
			name:  "course owner",
			actor: access.NewActorWith(1),
			req:   models.CreateLessonRequest{CourseID: 10, Title: "Intro", VideoURL: "https://youtu.be/x"},
		},
		{
			name:  "moderator",
			actor: access.NewActorWith(2, access.Moderator),
			req:   models.CreateLessonRequest{CourseID: 10, Title: "Intro"},
		},
		{
			name:     "course of someone else",
			actor:    access.NewActorWith(3),
			req:      models.CreateLessonRequest{CourseID: 10, Title: "Intro"},
			wantErr:  true,
			wantKind: apperr.KindValidation,
		},
		{
			name:     "missing course",
			actor:    access.NewActorWith(1),
			req:      models.CreateLessonRequest{CourseID: 99, Title: "Intro"},
			wantErr:  true,
			wantKind: apperr.KindValidation,
		},
		{
			name:     "bad video url",
			actor:    access.NewActorWith(1),
			req:      models.CreateLessonRequest{CourseID: 10, Title: "Intro", VideoURL: "https://rutube.ru/v"},
			wantErr:  true,
			wantKind: apperr.KindValidation,
		},
		{
			name:     "anonymous",
			actor:    access.Anonymous(),
			req:      models.CreateLessonRequest{CourseID: 10, Title: "Intro"},
			wantErr:  true,
			wantKind: apperr.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			courses := newFakeCourses()
			if !tt.wantErr {
				repo.On("CreateLesson", mock.Anything, mock.MatchedBy(func(l models.Lesson) bool {
					return l.CourseID == 10 && l.OwnerID == tt.actor.UserID && l.Price.IsZero()
				})).Return(&models.Lesson{ID: 5, CourseID: 10, OwnerID: tt.actor.UserID}, nil).Once()
			}
			svc := NewService(repo, courses)

			l, err := svc.Create(context.Background(), tt.actor, tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.Empty(t, courses.changed)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(5), l.ID)
				assert.Equal(t, []int64{10}, courses.changed)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Create_Price(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		wantPrice string
		wantErr   bool
	}{
		{name: "free lesson", price: "0", wantPrice: "0.00"},
		{name: "sub-cent price rounds to zero", price: "0.004", wantPrice: "0.00"},
		{name: "price rounded to cents", price: "149.999", wantPrice: "150.00"},
		{name: "negative price", price: "-0.01", wantErr: true},
		{name: "price above column range", price: "123456789012", wantErr: true},
		{name: "price rounding past column range", price: "99999999.995", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			if !tt.wantErr {
				repo.On("CreateLesson", mock.Anything, mock.MatchedBy(func(l models.Lesson) bool {
					return l.Price.StringFixed(3) == tt.wantPrice+"0"
				})).Return(&models.Lesson{ID: 5, CourseID: 10, OwnerID: 1}, nil).Once()
			}
			svc := NewService(repo, newFakeCourses())

			price := models.Money{Decimal: decimal.RequireFromString(tt.price)}
			_, err := svc.Create(context.Background(), access.NewActorWith(1),
				models.CreateLessonRequest{CourseID: 10, Title: "Intro", Price: &price})
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				repo.AssertNotCalled(t, "CreateLesson", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Update_PriceOutOfRange(t *testing.T) {
	repo := &RepoMock{}
	repo.On("GetLesson", mock.Anything, int64(5)).Return(&models.Lesson{ID: 5, CourseID: 10, OwnerID: 1}, nil)
	svc := NewService(repo, newFakeCourses())

	huge := models.Money{Decimal: decimal.RequireFromString("123456789012")}
	_, err := svc.Update(context.Background(), access.NewActorWith(1), 5, models.UpdateLessonRequest{Price: &huge})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "UpdateLesson", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_List(t *testing.T) {
	repo := &RepoMock{}
	repo.On("ListLessons", mock.Anything, access.OwnedBy(1), 10, 0).Return([]models.Lesson{{ID: 1}}, 1, nil).Once()
	svc := NewService(repo, newFakeCourses())

	page, err := svc.List(context.Background(), access.NewActorWith(1), pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)

	page, err = svc.List(context.Background(), access.Anonymous(), pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	repo.AssertExpectations(t)
}

func TestService_UpdateAndDelete(t *testing.T) {
	lesson := &models.Lesson{ID: 5, CourseID: 10, OwnerID: 1}
	url := "https://www.youtube.com/watch?v=1"
	upd := models.UpdateLessonRequest{VideoURL: &url}

	repo := &RepoMock{}
	repo.On("GetLesson", mock.Anything, int64(5)).Return(lesson, nil)
	repo.On("GetLesson", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)
	repo.On("UpdateLesson", mock.Anything, int64(5), upd).Return(lesson, nil).Once()
	repo.On("DeleteLesson", mock.Anything, int64(5)).Return(nil).Once()
	courses := newFakeCourses()
	svc := NewService(repo, courses)

	moderator := access.NewActorWith(2, access.Moderator)
	_, err := svc.Update(context.Background(), moderator, 5, upd)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, courses.changed)

	bad := "https://example.com/v"
	_, err = svc.Update(context.Background(), moderator, 5, models.UpdateLessonRequest{VideoURL: &bad})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(svc.Delete(context.Background(), moderator, 5)))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(context.Background(), access.NewActorWith(3), 5)))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(context.Background(), access.NewActorWith(1), 404)))
	require.NoError(t, svc.Delete(context.Background(), access.NewActorWith(1), 5))

	repo.AssertExpectations(t)
}
