package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/lib/password"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) AddUserToGroup(ctx context.Context, userID int64, name string) error {
	return m.Called(ctx, userID, name).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCreateSuperuser(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "root@example.com" && u.IsSuperuser && u.IsStaff && u.IsActive &&
			password.CompareHash(u.PasswordHash, "s3cret!!") == nil
	})).Return(int64(1), nil).Once()

	id, err := NewService(repo, newNoopLogger()).CreateSuperuser(context.Background(), "root@example.com", "s3cret!!")

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	repo.AssertExpectations(t)
}

func TestCreateSuperuser_Errors(t *testing.T) {
	svc := NewService(new(RepoMock), newNoopLogger())
	_, err := svc.CreateSuperuser(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrEmptyCredentials)

	repo := new(RepoMock)
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(int64(0), repository.ErrConflict).Once()
	_, err = NewService(repo, newNoopLogger()).CreateSuperuser(context.Background(), "root@example.com", "pw")
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestAddModerator(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUserByEmail", mock.Anything, "mod@example.com").Return(&models.User{ID: 4}, nil).Once()
	repo.On("AddUserToGroup", mock.Anything, int64(4), models.ModeratorsGroup).Return(nil).Once()

	require.NoError(t, NewService(repo, newNoopLogger()).AddModerator(context.Background(), "mod@example.com"))
	repo.AssertExpectations(t)

	missing := new(RepoMock)
	missing.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound).Once()
	err := NewService(missing, newNoopLogger()).AddModerator(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
