package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decode(t *testing.T, body io.Reader, envelope string) Status {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Data   Status `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	assert.Equal(t, envelope, resp.Status)
	return resp.Data
}

func TestHealth_AllUp(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	h := New(newNoopLogger(), map[string]Pinger{"postgres": ok, "redis": ok})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	st := decode(t, rr.Body, "OK")
	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "ok"}, st.Dependencies)
}

func TestHealth_Degraded(t *testing.T) {
	h := New(newNoopLogger(), map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	st := decode(t, rr.Body, "Error")
	assert.Equal(t, "degraded", st.Status)
	assert.Equal(t, "unavailable", st.Dependencies["redis"])
}
