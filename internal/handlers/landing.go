package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crowncoastal/landing-backend/internal/landing/cache"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

// LandingService is the slice of the cache service the public handler
// needs.
type LandingService interface {
	GetOrGenerate(ctx context.Context, city, slug string, force bool) (*cache.Page, error)
}

type LandingHandler struct {
	log *logger.Logger
	svc LandingService
}

func NewLandingHandler(log *logger.Logger, svc LandingService) *LandingHandler {
	return &LandingHandler{
		log: log.With("handler", "LandingHandler"),
		svc: svc,
	}
}

// GET /api/landing/:city/:slug
func (h *LandingHandler) GetPage(c *gin.Context) {
	city := c.Param("city")
	slug := c.Param("slug")

	page, err := h.svc.GetOrGenerate(c.Request.Context(), city, slug, false)
	if err != nil {
		if errors.Is(err, cache.ErrUnknownPageType) {
			RespondError(c, http.StatusNotFound, "UNKNOWN_PAGE_TYPE", err)
			return
		}
		h.log.Error("landing page fetch failed", "city", city, "slug", slug, "error", err)
		RespondError(c, http.StatusBadGateway, "GENERATION_FAILED", err)
		return
	}
	RespondOK(c, page)
}
