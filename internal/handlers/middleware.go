package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"coffee_sync/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ctxRawBody = "rawBody"

	// maxRequestBody bounds what is buffered for signing; larger bodies get 413.
	maxRequestBody = 1 << 20
)

// hmacMiddleware verifies the Authorization signature over the route's
// declared path (c.FullPath), the clock and the raw body.
func (h *Handler) hmacMiddleware(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	headers := make(map[string]string, len(c.Request.Header))
	for k := range c.Request.Header {
		headers[k] = c.Request.Header.Get(k)
	}
	ev := models.HTTPEvent{
		Headers:      headers,
		Body:         string(body),
		ResourcePath: c.FullPath(),
	}
	if !h.services.Verify(ev) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized."})
		return
	}

	c.Set(ctxRawBody, body)
	c.Next()
}
