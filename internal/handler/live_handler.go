package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/realtime"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
	"github.com/noah-isme/arcade-hub-api/pkg/response"
)

type liveSnapshots interface {
	Message(ctx context.Context, topic string) ([]byte, error)
}

// LiveHandler upgrades subscribers onto the websocket feed.
type LiveHandler struct {
	hub       *realtime.Hub
	snapshots liveSnapshots
	logger    *zap.Logger
}

// NewLiveHandler constructs a LiveHandler.
func NewLiveHandler(hub *realtime.Hub, snapshots liveSnapshots, logger *zap.Logger) *LiveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveHandler{hub: hub, snapshots: snapshots, logger: logger}
}

// Subscribe godoc
// @Summary Live updates over websocket
// @Description Sends the current snapshot of every requested topic, then a fresh snapshot whenever one changes
// @Tags Live
// @Param topics query string false "Comma separated topics; all topics when omitted"
// @Success 101
// @Failure 400 {object} response.Envelope
// @Router /live [get]
func (h *LiveHandler) Subscribe(c *gin.Context) {
	topics, err := parseTopics(c.QueryArray("topics"))
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.hub.Upgrade(c.Writer, c.Request)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(conn, topics)
	ctx := c.Request.Context()
	for _, topic := range topics {
		payload, err := h.snapshots.Message(ctx, topic)
		if err != nil {
			h.logger.Warn("initial live snapshot failed", zap.String("topic", topic), zap.Error(err))
			continue
		}
		client.Send(payload)
	}
	client.Serve()
}

func parseTopics(raw []string) ([]string, error) {
	seen := make(map[string]struct{})
	topics := make([]string, 0, len(models.LiveTopics()))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			topic := strings.ToLower(strings.TrimSpace(part))
			if topic == "" {
				continue
			}
			if !models.ValidTopic(topic) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown live topic: "+topic)
			}
			if _, ok := seen[topic]; ok {
				continue
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
		}
	}
	if len(topics) == 0 {
		return models.LiveTopics(), nil
	}
	return topics, nil
}
