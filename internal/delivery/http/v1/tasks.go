package v1

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-lambda/internal/delivery/router"
)

func (h *handlerImpl) HandleTasks(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read request body")
		writeResponse(c, router.InternalErrorResponse(fmt.Errorf("failed to read request body: %w", err)))
		return
	}

	logger := h.logger.With().
		Str("request_id", c.GetString(requestIDCtxKey)).
		Logger()
	ctx := logger.WithContext(c.Request.Context())

	resp := h.router.Route(ctx, router.Request{
		Method: c.Request.Method,
		ID:     c.Param("id"),
		Body:   string(body),
	})
	writeResponse(c, resp)
}

func (h *handlerImpl) HandleNoRoute(c *gin.Context) {
	for k, v := range router.CORSHeaders() {
		c.Header(k, v)
	}
	c.JSON(http.StatusNotFound, gin.H{"message": http.StatusText(http.StatusNotFound)})
}

func writeResponse(c *gin.Context, resp router.Response) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Data(resp.StatusCode, resp.Headers[router.HeaderContentType], []byte(resp.Body))
}
