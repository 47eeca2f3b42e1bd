package app

import (
	"net/http"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateSession exchanges an auth API token for a local session.
func (app *Application) CreateSession(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateSessionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	result := app.authClient.Me(r.Context(), input.Token)
	user, ok := result.Value()
	if !ok {
		logger.Warn("auth api rejected session token", "key", result.Err().Key)
		app.authErrorResponse(w, r, result.Err())
		return
	}

	// To help prevent session fixation attacks we should renew the session token after any privilege level change.
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), user.ID)
	app.sessionManager.Put(r.Context(), SessionKeyAuthToken.String(), input.Token)

	logger.Info("session created", "user_id", user.ID)

	err = app.writeJSON(w, http.StatusOK, api.SessionResponse{User: toUserResponse(user)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
	if userId == 0 {
		app.notFoundResponse(w, r)
		return
	}

	token := app.sessionManager.GetString(r.Context(), SessionKeyAuthToken.String())

	err := app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.bus.Publish(events.Event{Topic: events.TopicLogout, UserID: userId, Token: token})

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	result := app.authClient.Me(r.Context(), app.contextGetAuthToken(r))

	user, err := result.Unwrap()
	if err != nil {
		app.authErrorResponse(w, r, result.Err())
		return
	}

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toUserResponse(user domain.User) api.UserResponse {
	resp := api.UserResponse{
		Id:       user.ID,
		Nombre:   user.FirstName,
		Apellido: user.LastName,
		Email:    openapi_types.Email(user.Email),
		Validado: user.Validated != nil,
		Roles:    make([]string, len(user.Roles)),
	}

	if user.BirthDate != nil {
		resp.FechaNacimiento = &openapi_types.Date{Time: *user.BirthDate}
	}

	for i, role := range user.Roles {
		resp.Roles[i] = role.Name
	}

	return resp
}
