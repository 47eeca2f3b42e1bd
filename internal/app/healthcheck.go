package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/enoturismo/recorridos/api"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "UP", http.StatusOK

	err := app.ping(r.Context())
	if err != nil {
		app.contextGetLogger(r).Warn("healthcheck failed", "error", err)
		status, code = "DOWN", http.StatusServiceUnavailable
	}

	systemInfo := api.SystemInfo{
		Version:     version,
		Environment: app.config.Env,
	}

	resp := api.HealthcheckResponse{
		Status:     status,
		SystemInfo: systemInfo,
	}

	err = app.writeJSON(w, code, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var errs []error

	if app.db != nil {
		errs = append(errs, app.db.Ping(ctx))
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Ping(ctx).Err())
	}

	return errors.Join(errs...)
}
