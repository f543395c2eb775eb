package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/service"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
	"github.com/noah-isme/arcade-hub-api/pkg/response"
)

type contentService interface {
	Rosters(ctx context.Context) (models.Rosters, error)
	ReplaceRosters(ctx context.Context, req service.ReplaceRostersRequest, actor string) (models.Rosters, error)
	AddPlayer(ctx context.Context, game string, player models.Player, actor string) (models.Rosters, error)
	RemovePlayer(ctx context.Context, game string, index int, actor string) (models.Rosters, error)
	Timetable(ctx context.Context) ([]models.DaySchedule, error)
	ReplaceTimetable(ctx context.Context, req service.ReplaceTimetableRequest, actor string) ([]models.DaySchedule, error)
	Settings(ctx context.Context) (models.SettingsDocument, error)
	UpdateSettings(ctx context.Context, settings models.SiteSettings, actor string) (models.SettingsDocument, error)
	UpdateLists(ctx context.Context, lists models.Lists, actor string) (models.SettingsDocument, error)
}

// ContentHandler exposes rosters, the timetable and site settings.
type ContentHandler struct {
	service contentService
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(svc contentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// Rosters godoc
// @Summary Game rosters
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope{data=models.Rosters}
// @Router /rosters [get]
func (h *ContentHandler) Rosters(c *gin.Context) {
	rosters, err := h.service.Rosters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rosters, nil)
}

// ReplaceRosters godoc
// @Summary Replace all rosters
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReplaceRostersRequest true "Rosters"
// @Success 200 {object} response.Envelope{data=models.Rosters}
// @Failure 400 {object} response.Envelope
// @Router /admin/rosters [put]
func (h *ContentHandler) ReplaceRosters(c *gin.Context) {
	var req service.ReplaceRostersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid rosters payload"))
		return
	}
	rosters, err := h.service.ReplaceRosters(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rosters, nil)
}

// AddPlayer godoc
// @Summary Add a player to a roster
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param game path string true "Game"
// @Param payload body models.Player true "Player"
// @Success 201 {object} response.Envelope{data=models.Rosters}
// @Failure 400 {object} response.Envelope
// @Router /admin/rosters/{game}/players [post]
func (h *ContentHandler) AddPlayer(c *gin.Context) {
	var player models.Player
	if err := c.ShouldBindJSON(&player); err != nil {
		response.Error(c, bindError(err, "invalid player payload"))
		return
	}
	rosters, err := h.service.AddPlayer(c.Request.Context(), c.Param("game"), player, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rosters)
}

// RemovePlayer godoc
// @Summary Remove a player from a roster
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param game path string true "Game"
// @Param index path int true "Zero-based player position"
// @Success 200 {object} response.Envelope{data=models.Rosters}
// @Failure 404 {object} response.Envelope
// @Router /admin/rosters/{game}/players/{index} [delete]
func (h *ContentHandler) RemovePlayer(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "player index must be an integer"))
		return
	}
	rosters, err := h.service.RemovePlayer(c.Request.Context(), c.Param("game"), index, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rosters, nil)
}

// Timetable godoc
// @Summary Weekly timetable
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.DaySchedule}
// @Router /timetable [get]
func (h *ContentHandler) Timetable(c *gin.Context) {
	schedule, err := h.service.Timetable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// ReplaceTimetable godoc
// @Summary Replace the weekly timetable
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReplaceTimetableRequest true "Schedule"
// @Success 200 {object} response.Envelope{data=[]models.DaySchedule}
// @Failure 400 {object} response.Envelope
// @Router /admin/timetable [put]
func (h *ContentHandler) ReplaceTimetable(c *gin.Context) {
	var req service.ReplaceTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid timetable payload"))
		return
	}
	schedule, err := h.service.ReplaceTimetable(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Settings godoc
// @Summary Site settings and pick-lists
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope{data=models.SettingsDocument}
// @Router /settings [get]
func (h *ContentHandler) Settings(c *gin.Context) {
	doc, err := h.service.Settings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// UpdateSettings godoc
// @Summary Update site settings
// @Description Leaves the pick-lists untouched
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SiteSettings true "Settings"
// @Success 200 {object} response.Envelope{data=models.SettingsDocument}
// @Failure 400 {object} response.Envelope
// @Router /admin/settings [put]
func (h *ContentHandler) UpdateSettings(c *gin.Context) {
	var settings models.SiteSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.Error(c, bindError(err, "invalid settings payload"))
		return
	}
	doc, err := h.service.UpdateSettings(c.Request.Context(), settings, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// UpdateLists godoc
// @Summary Update the pick-lists
// @Description Leaves the site settings untouched
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.Lists true "Lists"
// @Success 200 {object} response.Envelope{data=models.SettingsDocument}
// @Failure 400 {object} response.Envelope
// @Router /admin/lists [put]
func (h *ContentHandler) UpdateLists(c *gin.Context) {
	var lists models.Lists
	if err := c.ShouldBindJSON(&lists); err != nil {
		response.Error(c, bindError(err, "invalid lists payload"))
		return
	}
	doc, err := h.service.UpdateLists(c.Request.Context(), lists, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}
