package hrms

import "encoding/json"

// fallbackMessage is surfaced when neither the server nor the transport
// produced anything human-readable.
const fallbackMessage = "An unexpected error occurred"

// APIError is the single normalized error shape for everything that crosses
// the API boundary. The UI never branches on status codes, only displays
// the message, so the code is carried for logging purposes only.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the error envelope the server uses. FastAPI-style backends
// put validation and business errors in "detail"; some put them in "message".
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// normalizeResponseError turns a non-2xx response body into an APIError,
// preferring the server's detail message, then its generic message, then
// the fallback literal.
func normalizeResponseError(statusCode int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			return &APIError{Message: eb.Detail, StatusCode: statusCode}
		}
		if eb.Message != "" {
			return &APIError{Message: eb.Message, StatusCode: statusCode}
		}
	}
	return &APIError{Message: fallbackMessage, StatusCode: statusCode}
}

// normalizeTransportError turns a failed round trip (connection refused,
// timeout, open circuit) into an APIError.
func normalizeTransportError(err error) *APIError {
	if err == nil || err.Error() == "" {
		return &APIError{Message: fallbackMessage}
	}
	return &APIError{Message: err.Error()}
}
