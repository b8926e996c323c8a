// Package invoke adapts Lambda events to a sync run.
package invoke

import (
	"context"
	"encoding/json"
	"net/http"

	"coffee_sync"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"
	"coffee_sync/internal/service"

	"github.com/aws/aws-lambda-go/events"
)

const msgUnauthorized = "Unauthorized."

// Handler answers Lambda invocations. Scheduled events (any JSON) run the
// sync directly; API Gateway events must carry a valid HMAC signature first.
type Handler struct {
	services *service.Service
	cfgErr   error
	log      *logger.Logger
}

// NewHandler builds a handler around ready services.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// NewFailedHandler answers every invocation with a 500 carrying cfgErr, for
// when configuration could not be loaded at cold start.
func NewFailedHandler(cfgErr error, log *logger.Logger) *Handler {
	return &Handler{cfgErr: cfgErr, log: log}
}

// Handle is registered with lambda.Start.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (coffee_sync.Response, error) {
	if h.cfgErr != nil {
		if h.log != nil {
			h.log.Errorw("config_invalid", "err", h.cfgErr)
		}
		return coffee_sync.NewResponse(http.StatusInternalServerError, h.cfgErr.Error(), event), nil
	}

	if req, ok := asHTTPEvent(event); ok {
		if !h.services.Verify(toHTTPEvent(req)) {
			return coffee_sync.NewResponse(http.StatusUnauthorized, msgUnauthorized, event), nil
		}
	}

	out := h.services.Run(ctx)
	return coffee_sync.NewResponse(out.StatusCode, out.Message, event), nil
}

// asHTTPEvent reports whether the payload is an API Gateway proxy request,
// recognized by its httpMethod key.
func asHTTPEvent(event json.RawMessage) (events.APIGatewayProxyRequest, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(event, &probe); err != nil {
		return events.APIGatewayProxyRequest{}, false
	}
	if _, ok := probe["httpMethod"]; !ok {
		return events.APIGatewayProxyRequest{}, false
	}
	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return events.APIGatewayProxyRequest{}, false
	}
	return req, true
}

func toHTTPEvent(req events.APIGatewayProxyRequest) models.HTTPEvent {
	return models.HTTPEvent{
		Headers:      req.Headers,
		Body:         req.Body,
		ResourcePath: req.RequestContext.ResourcePath,
	}
}
