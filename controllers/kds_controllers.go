package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ordira-app/backend/kds"
	"github.com/ordira-app/backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// KDSHandler -> upgrade koneksi kitchen display ke websocket. Client hanya
// menerima broadcast; pesan masuk diabaikan.
func KDSHandler(c *gin.Context) {
	role := "koki"
	if r, exists := c.Get("role"); exists {
		role = r.(string)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("failed to upgrade websocket: %v", err)
		return
	}

	kds.RegisterClient(conn, role)

	go func() {
		defer kds.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
