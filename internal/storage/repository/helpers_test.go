package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/course-platform/internal/migrations"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_DB_TESTS") == "1" {
		t.Skip("skipping database integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB(), filepath.Join(root, "migrations")))

	return storage
}

// testDataFactory создаёт тестовые записи.
type testDataFactory struct {
	t       *testing.T
	storage *Storage
	seq     int
}

func newTestDataFactory(t *testing.T, storage *Storage) *testDataFactory {
	return &testDataFactory{t: t, storage: storage}
}

func (f *testDataFactory) user(mods ...func(*models.User)) *models.User {
	f.t.Helper()
	f.seq++
	u := models.User{
		Email:        fmt.Sprintf("user%d-%s@example.com", f.seq, uuid.NewString()[:8]),
		PasswordHash: "hash",
		FirstName:    "Test",
		IsActive:     true,
	}
	for _, m := range mods {
		m(&u)
	}
	id, err := f.storage.CreateUser(context.Background(), u)
	require.NoError(f.t, err)
	got, err := f.storage.GetUserByID(context.Background(), id)
	require.NoError(f.t, err)
	return got
}

func (f *testDataFactory) course(ownerID int64, title string) *models.Course {
	f.t.Helper()
	c, err := f.storage.CreateCourse(context.Background(), models.Course{
		Title:   title,
		OwnerID: ownerID,
		Price:   models.DefaultCoursePrice,
	})
	require.NoError(f.t, err)
	return c
}

func (f *testDataFactory) lesson(courseID, ownerID int64, title string) *models.Lesson {
	f.t.Helper()
	l, err := f.storage.CreateLesson(context.Background(), models.Lesson{
		CourseID: courseID,
		OwnerID:  ownerID,
		Title:    title,
		Price:    models.MustMoney("0"),
	})
	require.NoError(f.t, err)
	return l
}
