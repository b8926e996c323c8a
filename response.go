package coffee_sync

import (
	"encoding/json"
	"net/http"
)

// Response is the invocation result returned to the Lambda runtime (and
// mirrored by the HTTP server).
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type responseBody struct {
	Message string          `json:"message"`
	Input   json.RawMessage `json:"input"`
}

// NewResponse renders {message, input} as an indented JSON body.
// An empty or invalid input is echoed as null.
func NewResponse(statusCode int, message string, input json.RawMessage) Response {
	if len(input) == 0 || !json.Valid(input) {
		input = json.RawMessage("null")
	}
	b, err := json.MarshalIndent(responseBody{Message: message, Input: input}, "", "  ")
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError, Body: `{"message":"failed to encode response"}`}
	}
	return Response{StatusCode: statusCode, Body: string(b)}
}
