package subscription

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
	subscriptionsvc "github.com/magabrotheeeer/course-platform/internal/services/subscription"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// memoryRepo подписки в памяти с одним существующим курсом 7.
type memoryRepo struct {
	mu   sync.Mutex
	subs map[[2]int64]bool
}

func (m *memoryRepo) ToggleSubscription(_ context.Context, userID, courseID int64) (models.ToggleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if courseID != 7 {
		return "", repository.ErrNotFound
	}
	k := [2]int64{userID, courseID}
	if m.subs[k] {
		delete(m.subs, k)
		return models.SubscriptionRemoved, nil
	}
	m.subs[k] = true
	return models.SubscriptionAdded, nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestToggleHandler(t *testing.T) {
	repo := &memoryRepo{subs: map[[2]int64]bool{}}
	h := New(newNoopLogger(), subscriptionsvc.NewService(repo, newNoopLogger()))
	actor := access.NewActorWith(1)

	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
		req = req.WithContext(access.WithActor(req.Context(), actor))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := do(`{"course_id":7}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"message":"added"}}`, w.Body.String())

	w = do(`{"course_id":7}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"message":"removed"}}`, w.Body.String())

	w = do(`{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"course_id required"}`, w.Body.String())

	w = do(`{"course_id":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"course_id required"}`, w.Body.String())

	w = do(`{"course_id":99}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, repo.subs)
}
