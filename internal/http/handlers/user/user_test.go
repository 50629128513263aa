package user

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.User], error) {
	args := m.Called(ctx, actor, p)
	return args.Get(0).(models.Page[models.User]), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, actor access.Actor, id int64) (*models.User, error) {
	args := m.Called(ctx, actor, id)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) UpdateProfile(ctx context.Context, actor access.Actor, id int64, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, actor, id, upd)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUserHandlers(t *testing.T) {
	self := access.NewActorWith(1)
	super := access.NewActorWith(9, access.Superuser)
	full := &models.User{ID: 1, Email: "a@example.com", Phone: "+7000", PasswordHash: "hash"}
	city := "Kazan"

	tests := []struct {
		name         string
		actor        access.Actor
		method       string
		url          string
		body         string
		setupMock    func(m *MockService)
		expectedCode int
		contains     []string
		notContains  []string
	}{
		{
			name:   "self sees full record",
			actor:  self,
			method: http.MethodGet,
			url:    "/users/1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, self, int64(1)).Return(full, nil).Once()
			},
			expectedCode: http.StatusOK,
			contains:     []string{`"phone":"+7000"`},
			notContains:  []string{"hash"},
		},
		{
			name:   "superuser sees public record",
			actor:  super,
			method: http.MethodGet,
			url:    "/users/1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, super, int64(1)).Return(full, nil).Once()
			},
			expectedCode: http.StatusOK,
			contains:     []string{`"email":"a@example.com"`},
			notContains:  []string{"phone", "hash"},
		},
		{
			name:   "list forbidden",
			actor:  self,
			method: http.MethodGet,
			url:    "/users",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, self, pagination.Params{Page: 1, PageSize: 10}).
					Return(models.Page[models.User]{}, apperr.PermissionDenied("you do not have permission to list users")).Once()
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "update profile",
			actor:  self,
			method: http.MethodPatch,
			url:    "/users/1/profile",
			body:   `{"city":"Kazan"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, self, int64(1), models.ProfileUpdate{City: &city}).
					Return(&models.User{ID: 1, City: city}, nil).Once()
			},
			expectedCode: http.StatusOK,
			contains:     []string{`"city":"Kazan"`},
		},
		{
			name:   "superuser cannot delete others",
			actor:  super,
			method: http.MethodDelete,
			url:    "/users/1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, super, int64(1)).
					Return(apperr.PermissionDenied("you can only modify your own account")).Once()
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "self delete",
			actor:  self,
			method: http.MethodDelete,
			url:    "/users/1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, self, int64(1)).Return(nil).Once()
			},
			expectedCode: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			r := chi.NewRouter()
			r.Get("/users", h.List)
			r.Get("/users/{id}", h.Get)
			r.Patch("/users/{id}/profile", h.UpdateProfile)
			r.Delete("/users/{id}", h.Delete)

			req := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			req = req.WithContext(access.WithActor(req.Context(), tt.actor))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, w.Body.String(), s)
			}
			svc.AssertExpectations(t)
		})
	}
}
