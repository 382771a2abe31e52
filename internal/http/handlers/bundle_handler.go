// Bundle HTTP handler.
//
// POST /bundle accepts a batch of movie names and returns the coverage
// report: which single subscription service carries the most of them.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sushilbang/stream-where/internal/services"
)

// BundleRequest is the JSON payload for a bundle analysis.
type BundleRequest struct {
	// Movies is a list of 1–10 free-text movie names.
	Movies []string `json:"movies" example:"inception,the dark knight"`
}

// AnalyzeBundle godoc
// @ID          analyzeBundle
// @Summary     Best-coverage subscription analysis
// @Description Resolves each movie name, looks up streaming availability,
//              and ranks subscription services by how many of the requested
//              movies each covers.
// @Tags        Bundle
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.BundleRequest  true  "1–10 movie names"
//
// @Success     200  {object}  domain.BundleReport
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     402  {object}  handlers.ErrorResponse  "Provider quota exhausted"
// @Failure     429  {object}  handlers.ErrorResponse  "Provider rate limit"
// @Router      /bundle [post]
func (h *Handlers) AnalyzeBundle(c *gin.Context) {
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	names := make([]string, 0, len(req.Movies))
	for _, m := range req.Movies {
		if m = strings.TrimSpace(m); m != "" {
			names = append(names, m)
		}
	}

	report, err := h.bundle.Analyze(c.Request.Context(), names)
	if err != nil {
		if errors.Is(err, services.ErrNoMovies) || errors.Is(err, services.ErrTooManyMovies) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		failUpstream(c, err)
		return
	}
	ok(c, http.StatusOK, report)
}
