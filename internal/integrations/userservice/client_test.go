package userservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/7":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":7,"username":"dr.house","avatar":"https://cdn/a.png","role":"doctor","clinicLocation":"Room 4"}`))
		case "/internal/users/8":
			_, _ = w.Write([]byte(`not json`))
		case "/internal/users/9":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetUser(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, 0, 1, nopLogger{})

	user, err := client.GetUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "dr.house", user.Username)
	assert.Equal(t, domain.RoleDoctor, user.Role)
	assert.True(t, user.IsDoctor())
	require.NotNil(t, user.ClinicLocation)
	assert.Equal(t, "Room 4", *user.ClinicLocation)
}

func TestClient_GetUser_Errors(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, 0, 1, nopLogger{})
	ctx := context.Background()

	_, err := client.GetUser(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = client.GetUser(ctx, 8)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.GetUser(ctx, 9)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GracefulDegradation(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, 0, 1, nopLogger{})
	ctx := context.Background()

	_, err := client.GetUserWithGracefulDegradation(ctx, 9)
	assert.ErrorIs(t, err, ErrServiceDegraded)

	// отсутствие пользователя не деградация
	_, err = client.GetUserWithGracefulDegradation(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, errors.Is(err, ErrServiceDegraded))
}

func TestClient_RateLimitRespectsContext(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"id":1,"username":"u","role":"patient"}`))
	}))
	defer srv.Close()

	// один запрос в минуту: второй не дождется токена до дедлайна
	client := NewClient(srv.URL, time.Second, 1.0/60, 1, nopLogger{})

	_, err := client.GetUser(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetUser(ctx, 1)

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
