package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arcade-hub-api/internal/middleware"
	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/pkg/response"
)

type siteService interface {
	Public(ctx context.Context) (*models.SitePayload, bool, error)
}

type statusService interface {
	Current(ctx context.Context) (models.LiveStatus, error)
}

// SiteHandler serves the public page aggregate and live status.
type SiteHandler struct {
	site   siteService
	status statusService
}

// NewSiteHandler constructs a SiteHandler.
func NewSiteHandler(site siteService, status statusService) *SiteHandler {
	return &SiteHandler{site: site, status: status}
}

// Site godoc
// @Summary Public page payload
// @Description Events, leaderboard, rosters, timetable, settings, lists, FAQ and the live status
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope{data=models.SitePayload}
// @Router /site [get]
func (h *SiteHandler) Site(c *gin.Context) {
	payload, hit, err := h.site.Public(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, payload, nil, middleware.ExtractMeta(c))
}

// Status godoc
// @Summary Live venue status
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope{data=models.LiveStatus}
// @Router /status [get]
func (h *SiteHandler) Status(c *gin.Context) {
	status, err := h.status.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
