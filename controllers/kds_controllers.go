package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/weekly-menu/kds"
	"github.com/yeremiapane/weekly-menu/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var staffRoles = map[string]bool{"kitchen": true, "dispatch": true, "admin": true}

type KDSController struct {
	Hub *kds.Hub
}

func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{Hub: hub}
}

// KDSHandler upgrades a staff screen to a websocket that receives order and menu events.
// ?role= labels the screen in logs; it defaults to admin.
func (kc *KDSController) KDSHandler(c *gin.Context) {
	role := c.DefaultQuery("role", "admin")
	if !staffRoles[role] {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	kc.Hub.Register(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(ws)
}
