package register

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
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "password1",
		FirstName: "Ann",
	}).Return(&models.User{ID: 5, Email: "new@example.com", FirstName: "Ann", IsActive: true}, nil).Once()

	h := New(newNoopLogger(), svc)
	req := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"email":"new@example.com","password":"password1","first_name":"Ann"}`))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"new@example.com"`)
	assert.NotContains(t, rr.Body.String(), "password")
	svc.AssertExpectations(t)
}

func TestRegisterHandler_Errors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name:         "short password",
			body:         `{"email":"new@example.com","password":"123"}`,
			setupMock:    func(_ *MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"field password must be at least 8 characters long"}`,
		},
		{
			name: "email taken",
			body: `{"email":"taken@example.com","password":"password1"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, apperr.Validation("user with this email already exists")).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"user with this email already exists"}`,
		},
		{
			name:         "malformed json",
			body:         `{"email":`,
			setupMock:    func(_ *MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"failed to decode request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
