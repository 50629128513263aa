package login

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"email":"a@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "a@example.com", "secret123").
					Return(models.TokenPair{Access: "acc", Refresh: "ref"}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"OK","data":{"access":"acc","refresh":"ref"}}`,
		},
		{
			name: "bad credentials",
			body: `{"email":"a@example.com","password":"wrong"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "a@example.com", "wrong").
					Return(models.TokenPair{}, apperr.Unauthenticated("no active account found with the given credentials")).Once()
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"status":"Error","error":"no active account found with the given credentials"}`,
		},
		{
			name:         "invalid email",
			body:         `{"email":"nope","password":"x"}`,
			setupMock:    func(_ *MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"field email must be a valid email address"}`,
		},
		{
			name:         "empty body",
			body:         ``,
			setupMock:    func(_ *MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"empty request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
