package authapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	KeyNetworkError         = "app.general.network_error"
	KeyInvalidOrExpiredCode = "app.auth.invalid_or_expired_code"
	KeyUnauthorized         = "app.auth.unauthorized"
)

// APIError is the error envelope returned by the auth API.
type APIError struct {
	Key        string `json:"key"`
	Message    string `json:"message"`
	MessageEng string `json:"message_eng"`
	Status     int    `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: %s (status %d): %s", e.Key, e.Status, e.MessageEng)
}

// NetworkError is the fallback used whenever the upstream answer cannot be
// understood.
func NetworkError(status int) *APIError {
	return &APIError{
		Key:        KeyNetworkError,
		Message:    "Error de red",
		MessageEng: "Network error",
		Status:     status,
	}
}

// parseAPIError decodes a non-2xx response body, falling back to
// NetworkError when it is not a complete envelope.
func parseAPIError(res *http.Response) *APIError {
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return NetworkError(res.StatusCode)
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return NetworkError(res.StatusCode)
	}

	if apiErr.Key == "" || apiErr.Message == "" || apiErr.MessageEng == "" || apiErr.Status == 0 {
		return NetworkError(res.StatusCode)
	}

	return &apiErr
}
