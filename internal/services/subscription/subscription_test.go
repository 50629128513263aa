package subscription

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

type pair struct{ user, course int64 }

// memoryRepo набор подписок в памяти.
type memoryRepo struct {
	mu      sync.Mutex
	courses map[int64]bool
	subs    map[pair]bool
}

func (r *memoryRepo) ToggleSubscription(_ context.Context, userID, courseID int64) (models.ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.courses[courseID] {
		return "", repository.ErrNotFound
	}
	k := pair{userID, courseID}
	if r.subs[k] {
		delete(r.subs, k)
		return models.SubscriptionRemoved, nil
	}
	r.subs[k] = true
	return models.SubscriptionAdded, nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func ptr(v int64) *int64 { return &v }

func TestService_Toggle(t *testing.T) {
	repo := &memoryRepo{courses: map[int64]bool{1: true}, subs: map[pair]bool{}}
	svc := NewService(repo, newNoopLogger())
	actor := access.NewActorWith(7)

	res, err := svc.Toggle(context.Background(), actor, models.ToggleRequest{CourseID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionAdded, res)
	assert.Len(t, repo.subs, 1)

	res, err = svc.Toggle(context.Background(), actor, models.ToggleRequest{CourseID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionRemoved, res)
	assert.Empty(t, repo.subs)
}

func TestService_Toggle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		req      models.ToggleRequest
		wantKind apperr.Kind
		wantMsg  string
	}{
		{name: "missing course_id", actor: access.NewActorWith(7), wantKind: apperr.KindValidation, wantMsg: "course_id required"},
		{name: "zero course_id", actor: access.NewActorWith(7), req: models.ToggleRequest{CourseID: ptr(0)}, wantKind: apperr.KindValidation, wantMsg: "course_id required"},
		{name: "negative course_id", actor: access.NewActorWith(7), req: models.ToggleRequest{CourseID: ptr(-1)}, wantKind: apperr.KindValidation, wantMsg: "course_id required"},
		{name: "unknown course", actor: access.NewActorWith(7), req: models.ToggleRequest{CourseID: ptr(2)}, wantKind: apperr.KindNotFound, wantMsg: "course not found"},
		{name: "anonymous", actor: access.Anonymous(), req: models.ToggleRequest{CourseID: ptr(1)}, wantKind: apperr.KindUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{courses: map[int64]bool{1: true}, subs: map[pair]bool{}}
			svc := NewService(repo, newNoopLogger())

			_, err := svc.Toggle(context.Background(), tt.actor, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperr.MessageOf(err))
			}
			assert.Empty(t, repo.subs)
		})
	}
}
