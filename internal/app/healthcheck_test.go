package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "redis reachable",
			wantStatus: http.StatusOK,
			wantBody:   "UP",
		},
		{
			name:       "redis down",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "DOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisClient := &mocks.MockRedisClient{}
			redisClient.On("Ping", mock.Anything).Return(redis.NewStatusResult("PONG", tt.pingErr))

			app := newTestApplication(func(a *Application) {
				a.redis = redisClient
			})

			w, r := executeRequest(t, http.MethodGet, "/healthcheck", nil)
			app.GetHealth(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp api.HealthcheckResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, "test", resp.SystemInfo.Environment)
			assert.Equal(t, version, resp.SystemInfo.Version)

			redisClient.AssertExpectations(t)
		})
	}
}

func TestGetHealthWithoutBackends(t *testing.T) {
	app := newTestApplication()

	w, r := executeRequest(t, http.MethodGet, "/healthcheck", nil)
	app.GetHealth(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
