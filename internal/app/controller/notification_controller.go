package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/storify/storify-backend/internal/middleware"
	ws "github.com/storify/storify-backend/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by the CORS layer in front of us
		return true
	},
}

type NotificationController struct {
	hub *ws.Hub
}

func NewNotificationController(hub *ws.Hub) *NotificationController {
	return &NotificationController{
		hub: hub,
	}
}

// Subscribe upgrades the connection and streams cart notifications
// GET /api/v1/cart/notifications/ws
func (ctrl *NotificationController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection", err, nil)
		return
	}

	client := ws.NewClient(ctrl.hub, conn)
	go client.WritePump()
	go client.ReadPump()

	log.Info("Notification subscriber connected", nil)
}
