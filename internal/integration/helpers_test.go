package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"updatedAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanValue(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// indeterministic fields are dropped from both sides
	cleanValue(expected)

	if diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanValue(v any) {
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			if _, ok := keysToIgnore[k]; ok {
				delete(v, k)
				continue
			}
			cleanValue(v[k])
		}
	case []any:
		for _, item := range v {
			cleanValue(item)
		}
	}
}

func decodeResponse[T any](t testing.TB, res *http.Response) T {
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func jsonBody(t testing.TB, v any) io.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read %s", path)

	_, err = db.Exec(context.Background(), string(content))
	require.NoError(t, err, "failed to execute %s", path)
}

func resetState(t testing.TB, app *TestApp) {
	executeSQLFile(t, app.DB, "testdata/catalog_down.sql")
	executeSQLFile(t, app.DB, "testdata/catalog_up.sql")
	app.Mailer.Reset()
}

func seedRecorridos(t testing.TB, app *TestApp) {
	resetState(t, app)
	executeSQLFile(t, app.DB, "testdata/recorridos_up.sql")
}

// authenticatedCookies opens a session through the API for the user behind
// token and returns the session cookies.
func (a *TestApp) authenticatedCookies(t testing.TB, token string) []*http.Cookie {
	req := prepareRequest(http.MethodPost, "/session", bytes.NewReader([]byte(fmt.Sprintf(`{"token": %q}`, token))), nil, nil)

	rec := httptest.NewRecorder()
	a.App.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "failed to open session: %s", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	return cookies
}

func recorridoEstado(t testing.TB, db *pgxpool.Pool, id int) string {
	var estado string
	err := db.QueryRow(context.Background(), "SELECT estado FROM recorridos WHERE id = $1", id).Scan(&estado)
	require.NoError(t, err)
	return estado
}

func newRecorder(app *TestApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)
	return rec
}
