package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fleet/internal/domain"
	"fleet/internal/middleware"
	"fleet/internal/socket"
)

// pongWait is how long a connection may stay silent before it is dropped.
const pongWait = 30 * time.Second

// WebSocketHandler upgrades admin connections and registers them on the hub.
type WebSocketHandler struct {
	hub       *socket.Hub
	validator middleware.TokenValidator
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. An empty allowedOrigins
// or one containing "*" accepts any origin.
func NewWebSocketHandler(hub *socket.Hub, validator middleware.TokenValidator, allowedOrigins []string) *WebSocketHandler {
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs handles GET /api/ws?token=<access token>
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "token is required"})
		return
	}

	claims, err := h.validator.ValidateAccessToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid or expired token"})
		return
	}
	if claims.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "you do not have permission to access this resource"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("failed to upgrade websocket connection")
		return
	}

	userID := claims.UserID()
	connID := h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(connID)
		conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("user_id", userID).Warn("websocket closed unexpectedly")
			}
			return
		}
	}
}
