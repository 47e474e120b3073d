package handlers

import (
	"context"
	"encoding/json"

	"swiftride/internal/config"
	"swiftride/internal/models"
	"swiftride/internal/services"
	"swiftride/internal/utils"
	"swiftride/pkg/logger"
	ws "swiftride/pkg/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WSHandler upgrades authenticated clients to the push channel and wires
// each connection into the presence registry for its lifetime.
type WSHandler struct {
	upgrader      *gorilla.Upgrader
	presence      *services.PresenceService
	driverService *services.DriverService
	jwtSecret     string
	logger        *logger.Logger
}

func NewWSHandler(
	cfg *config.WebSocketConfig,
	security *config.SecurityConfig,
	presence *services.PresenceService,
	driverService *services.DriverService,
	log *logger.Logger,
) *WSHandler {
	return &WSHandler{
		upgrader: ws.NewUpgrader(&ws.UpgraderConfig{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			AllowedOrigins:  cfg.AllowedOrigins,
		}),
		presence:      presence,
		driverService: driverService,
		jwtSecret:     security.JWTSecret,
		logger:        log,
	}
}

// Connect authenticates via the token query parameter, upgrades, and serves
// the connection until it drops. Browsers cannot set headers on websocket
// dials, hence the query parameter.
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.UnauthorizedResponse(c)
		return
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		utils.UnauthorizedResponse(c)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(conn, claims.UserID, claims.Role)
	client.OnEvent(h.handleEvent)
	client.OnClose(func(closed *ws.Client) {
		h.presence.MarkOffline(closed)
	})

	h.presence.MarkOnline(client.UserID, client)
	client.Send(utils.EventWelcome, gin.H{"user_id": claims.UserID})

	client.Run()
}

type locationUpdatePayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// handleEvent processes inbound client events. Only drivers push location
// updates over the socket; everything else is ignored.
func (h *WSHandler) handleEvent(client *ws.Client, event string, data json.RawMessage) {
	if event != utils.EventLocationUpdate || client.Role != string(models.UserRoleDriver) {
		return
	}

	var payload locationUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	userID, err := primitive.ObjectIDFromHex(client.UserID)
	if err != nil {
		return
	}

	ctx := context.Background()
	driver, err := h.driverService.GetDriverByUserID(ctx, userID)
	if err != nil {
		return
	}

	if err := h.driverService.UpdateLocation(ctx, driver.ID, payload.Latitude, payload.Longitude); err != nil {
		h.logger.WithField("user_id", client.UserID).WithError(err).Debug("Ignored bad location update")
	}
}
