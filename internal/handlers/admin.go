package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	landingrepo "github.com/crowncoastal/landing-backend/internal/data/repos/landing"
	"github.com/crowncoastal/landing-backend/internal/landing/cache"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

type AdminHandler struct {
	log  *logger.Logger
	svc  LandingService
	runs landingrepo.GenerationRunRepo
}

func NewAdminHandler(log *logger.Logger, svc LandingService, runs landingrepo.GenerationRunRepo) *AdminHandler {
	return &AdminHandler{
		log:  log.With("handler", "AdminHandler"),
		svc:  svc,
		runs: runs,
	}
}

// POST /api/admin/landing/:city/:slug/regenerate
func (h *AdminHandler) Regenerate(c *gin.Context) {
	city := c.Param("city")
	slug := c.Param("slug")

	page, err := h.svc.GetOrGenerate(c.Request.Context(), city, slug, true)
	if err != nil {
		if errors.Is(err, cache.ErrUnknownPageType) {
			RespondError(c, http.StatusNotFound, "UNKNOWN_PAGE_TYPE", err)
			return
		}
		h.log.Error("forced regeneration failed", "city", city, "slug", slug, "error", err)
		RespondError(c, http.StatusBadGateway, "GENERATION_FAILED", err)
		return
	}
	RespondOK(c, page)
}

// GET /api/admin/landing/runs?city=&slug=&limit=
func (h *AdminHandler) ListRuns(c *gin.Context) {
	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	city := strings.TrimSpace(c.Query("city"))
	slug := strings.TrimSpace(c.Query("slug"))

	if city != "" && slug != "" {
		rows, err := h.runs.ListByPage(c.Request.Context(), nil, city, slug, limit)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "RUNS_QUERY_FAILED", err)
			return
		}
		RespondOK(c, gin.H{"runs": rows})
		return
	}

	rows, err := h.runs.ListRecent(c.Request.Context(), nil, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "RUNS_QUERY_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"runs": rows})
}
