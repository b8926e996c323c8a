package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"coffee_sync"
	"coffee_sync/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Run a sync
// @Description  Same behaviour as the scheduled Lambda invocation. Requires Authorization: <clock>!<hex hmac>.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Success      200  {object}  coffee_sync.Response
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /sync [post]
func (h *Handler) runSync(c *gin.Context) {
	out := h.services.Run(c.Request.Context())

	var input json.RawMessage
	if raw, ok := c.Get(ctxRawBody); ok {
		input, _ = raw.([]byte)
	}
	resp := coffee_sync.NewResponse(out.StatusCode, out.Message, input)
	c.Data(resp.StatusCode, "application/json; charset=utf-8", []byte(resp.Body))
}

// @Summary      Recent sync runs
// @Tags         sync
// @Produce      json
// @Param        limit  query  int  false  "Max runs (default 20, max 200)"
// @Success      200  {object}  map[string]interface{}  "count, runs"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /runs [get]
func (h *Handler) listRuns(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit'; use a positive integer"})
			return
		}
		limit = v
	}

	runs, err := h.services.Recent(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrJournalDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("runs_list_failed", "err", err, "limit", limit)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}
