package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/service"
	"github.com/noah-isme/arcade-hub-api/pkg/response"
)

type highscoreService interface {
	Submit(ctx context.Context, req service.SubmitHighscoreRequest) (*models.Highscore, error)
	Leaderboard(ctx context.Context, game string) ([]models.Highscore, error)
	ListPending(ctx context.Context) ([]models.Highscore, error)
	List(ctx context.Context) ([]models.Highscore, error)
	Approve(ctx context.Context, id, actor string) (*models.Highscore, error)
	Reject(ctx context.Context, id string) error
	Export(ctx context.Context, format, game string) (*service.ExportFile, error)
}

// HighscoreHandler exposes score submission, the leaderboard and moderation.
type HighscoreHandler struct {
	service highscoreService
}

// NewHighscoreHandler constructs a HighscoreHandler.
func NewHighscoreHandler(svc highscoreService) *HighscoreHandler {
	return &HighscoreHandler{service: svc}
}

// Leaderboard godoc
// @Summary Approved leaderboard
// @Tags Highscores
// @Produce json
// @Param game query string false "Restrict to one game"
// @Success 200 {object} response.Envelope{data=[]models.Highscore}
// @Router /highscores [get]
func (h *HighscoreHandler) Leaderboard(c *gin.Context) {
	scores, err := h.service.Leaderboard(c.Request.Context(), c.Query("game"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// Submit godoc
// @Summary Submit a score
// @Description Stored as pending until a moderator approves it
// @Tags Highscores
// @Accept json
// @Produce json
// @Param payload body service.SubmitHighscoreRequest true "Score"
// @Success 201 {object} response.Envelope{data=models.Highscore}
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /highscores [post]
func (h *HighscoreHandler) Submit(c *gin.Context) {
	var req service.SubmitHighscoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid highscore payload"))
		return
	}
	score, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, score)
}

// List godoc
// @Summary All highscores
// @Tags Highscores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Highscore}
// @Router /admin/highscores [get]
func (h *HighscoreHandler) List(c *gin.Context) {
	scores, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// Pending godoc
// @Summary Highscores awaiting moderation
// @Tags Highscores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Highscore}
// @Router /admin/highscores/pending [get]
func (h *HighscoreHandler) Pending(c *gin.Context) {
	scores, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// Approve godoc
// @Summary Approve a highscore
// @Tags Highscores
// @Produce json
// @Security BearerAuth
// @Param id path string true "Highscore ID"
// @Success 200 {object} response.Envelope{data=models.Highscore}
// @Failure 404 {object} response.Envelope
// @Router /admin/highscores/{id}/approve [post]
func (h *HighscoreHandler) Approve(c *gin.Context) {
	score, err := h.service.Approve(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, score, nil)
}

// Reject godoc
// @Summary Delete a highscore
// @Tags Highscores
// @Security BearerAuth
// @Param id path string true "Highscore ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/highscores/{id} [delete]
func (h *HighscoreHandler) Reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download the approved leaderboard
// @Tags Highscores
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param game query string false "Restrict to one game"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/highscores/export [get]
func (h *HighscoreHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Query("format"), c.Query("game"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
