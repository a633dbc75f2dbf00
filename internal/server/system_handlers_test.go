package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendTest(ctx context.Context, to string) error {
	return m.Called(ctx, to).Error(0)
}

func (m *mockMailer) QueueLength(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTestEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mailer := new(mockMailer)
	router := gin.New()
	router.POST("/admin/notify/test", TestEmail(mailer))

	send := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/notify/test"+query, nil))
		return w
	}

	assert.Equal(t, http.StatusBadRequest, send("").Code)
	assert.Equal(t, http.StatusBadRequest, send("?email=not-an-address").Code)
	mailer.AssertNotCalled(t, "SendTest", mock.Anything, mock.Anything)

	mailer.On("SendTest", mock.Anything, "ops@examprep.in").Return(nil).Once()
	assert.Equal(t, http.StatusAccepted, send("?email=ops@examprep.in").Code)

	mailer.On("SendTest", mock.Anything, "down@examprep.in").Return(errors.New("redis: connection refused")).Once()
	w := send("?email=down@examprep.in")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis")
}

func TestEmailQueue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mailer := new(mockMailer)
	router := gin.New()
	router.GET("/admin/notify/queue", EmailQueue(mailer))

	mailer.On("QueueLength", mock.Anything).Return(int64(4), nil).Once()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/notify/queue", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp QueueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.Pending)

	mailer.On("QueueLength", mock.Anything).Return(int64(0), errors.New("timeout")).Once()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/notify/queue", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
