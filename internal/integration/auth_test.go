package integration_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	BaseSuite
}

func TestAuthSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(AuthTestSuite))
}

func (s *AuthTestSuite) TestCreateSession() {
	scenarios := []Scenario{
		{
			Name:             "returns 400 for request with malformed JSON",
			Method:           "POST",
			URL:              "/session",
			Body:             strings.NewReader(`{"token":"abc"`),
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "the request body does not match the expected schema"}`,
		},
		{
			Name:           "returns 422 when the token is missing",
			Method:         "POST",
			URL:            "/session",
			Body:           strings.NewReader(`{}`),
			ExpectedStatus: http.StatusUnprocessableEntity,
			ExpectedResponse: `{
				"message": "One or more fields have invalid values",
				"validationErrors": [
					{"field": "token", "issue": "is required"}
				]
			}`,
		},
		{
			Name:             "returns 401 with the auth API message for an unknown token",
			Method:           "POST",
			URL:              "/session",
			Body:             strings.NewReader(`{"token": "forged"}`),
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "No autorizado"}`,
		},
		{
			Name:           "opens a session for a valid token",
			Method:         "POST",
			URL:            "/session",
			Body:           strings.NewReader(`{"token": "token-ana"}`),
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"user": {
					"id": 1,
					"nombre": "Ana",
					"apellido": "Pérez",
					"email": "ana@example.com",
					"validado": false,
					"roles": ["turista"]
				}
			}`,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				require.NotEmpty(t, res.Cookies())
				require.Equal(t, "session_id", res.Cookies()[0].Name)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *AuthTestSuite) TestSessionLifecycle() {
	cookies := s.app.authenticatedCookies(s.T(), TestUserToken)

	scenarios := []Scenario{
		{
			Name:             "returns 401 without a session",
			Method:           "GET",
			URL:              "/users/me",
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
		},
		{
			Name:           "returns the current user",
			Method:         "GET",
			URL:            "/users/me",
			Cookies:        cookies,
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"id": 1,
				"nombre": "Ana",
				"apellido": "Pérez",
				"email": "ana@example.com",
				"validado": false,
				"roles": ["turista"]
			}`,
		},
		{
			Name:           "destroys the session",
			Method:         "DELETE",
			URL:            "/session",
			Cookies:        cookies,
			ExpectedStatus: http.StatusNoContent,
		},
		{
			Name:             "the destroyed session no longer authenticates",
			Method:           "GET",
			URL:              "/users/me",
			Cookies:          cookies,
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
		},
		{
			Name:             "deleting a missing session returns 404",
			Method:           "DELETE",
			URL:              "/session",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "The requested resource not found"}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
