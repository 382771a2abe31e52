// Status HTTP handler.
//
// GET /status reports the observed upstream quota state and the size of
// the in-process caches. It reads local state only and never triggers an
// upstream call, so it is safe to poll.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus godoc
// @ID          getStatus
// @Summary     Quota and cache introspection
// @Description Returns the search-provider daily counter, the latest
//              availability-provider rate-limit telemetry, and cache sizes.
// @Tags        Status
// @Produce     json
//
// @Success     200  {object}  services.StatusReport
// @Router      /status [get]
func (h *Handlers) GetStatus(c *gin.Context) {
	ok(c, http.StatusOK, h.status.Status())
}
