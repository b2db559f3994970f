// Package lambda adapts API Gateway proxy events to the task router.
package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lambda/internal/delivery/router"
)

// PathParameterID is the name of the path parameter holding the task
// identifier, as declared on the /tasks/{id} API Gateway resource.
const PathParameterID = "id"

type Handler struct {
	logger zerolog.Logger
	router router.Router
}

func NewHandler(logger zerolog.Logger, r router.Router) *Handler {
	return &Handler{
		logger: logger,
		router: r,
	}
}

// Handle is passed to lambda.Start. The returned error is always nil so
// that API Gateway relays the response instead of answering 502.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.logger.With().
		Str("path", event.Path).
		Logger()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With().
			Str("request_id", lc.AwsRequestID).
			Logger()
	}
	ctx = logger.WithContext(ctx)

	body, err := decodeBody(event)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to decode event body")
		return toProxyResponse(router.InternalErrorResponse(err)), nil
	}

	resp := h.router.Route(ctx, router.Request{
		Method: event.HTTPMethod,
		ID:     event.PathParameters[PathParameterID],
		Body:   body,
	})

	logger.Debug().
		Str("method", event.HTTPMethod).
		Int("status", resp.StatusCode).
		Msg("responded to event")
	return toProxyResponse(resp), nil
}

// decodeBody only decodes the body of methods the router reads it for,
// so that a preflight never fails on its payload.
func decodeBody(event events.APIGatewayProxyRequest) (string, error) {
	switch event.HTTPMethod {
	case http.MethodPost, http.MethodPut:
	default:
		return "", nil
	}
	if !event.IsBase64Encoded {
		return event.Body, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 body: %w", err)
	}
	return string(decoded), nil
}

func toProxyResponse(resp router.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}
