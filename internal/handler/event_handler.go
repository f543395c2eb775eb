package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/service"
	"github.com/noah-isme/arcade-hub-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, upcomingOnly bool) ([]models.Event, error)
	Create(ctx context.Context, req service.CreateEventRequest, actor string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventHandler exposes the event agenda.
type EventHandler struct {
	service eventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List events
// @Description All events ordered by date; upcoming=true drops events before today
// @Tags Events
// @Produce json
// @Param upcoming query bool false "Only events from today on"
// @Success 200 {object} response.Envelope{data=[]models.Event}
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	upcoming, _ := strconv.ParseBool(c.Query("upcoming"))
	events, err := h.service.List(c.Request.Context(), upcoming)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Create godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateEventRequest true "Event"
// @Success 201 {object} response.Envelope{data=models.Event}
// @Failure 400 {object} response.Envelope
// @Router /admin/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid event payload"))
		return
	}
	event, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
