package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/authz"
	"github.com/taskdeck-dev/taskdeck/internal/logging"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
)

var (
	boardClients   = make(map[uint]map[*websocket.Conn]bool)
	boardClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells every board client watching the project to
// re-fetch. Called after task and membership mutations.
func BroadcastRefresh(projectID uint) {
	boardClientsMu.RLock()
	clients, exists := boardClients[projectID]
	if !exists || len(clients) == 0 {
		boardClientsMu.RUnlock()
		return
	}

	// Copy the connections so the lock is not held while writing.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	boardClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logging.Logger.Warnf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":       "refresh",
			"message":    "Board data updated",
			"project_id": projectID,
		})

		if err != nil {
			logging.Logger.Warnf("Failed to broadcast refresh to client: %v", err)
			boardClientsMu.Lock()
			if clients, exists := boardClients[projectID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(boardClients, projectID)
				}
			}
			boardClientsMu.Unlock()
			conn.Close()
		}
	}
}

// BoardWebSocket upgrades a member's connection and parks it on the
// project's hub until it drops.
func BoardWebSocket(c *gin.Context) {
	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := authz.RequireMember(db.DB, userID, projectID); err != nil {
		if errors.Is(err, authz.ErrNotMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		logging.Logger.Errorf("Failed to check membership: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open board stream"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Logger.Warnf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logging.Logger.Warnf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	boardClientsMu.Lock()
	if boardClients[projectID] == nil {
		boardClients[projectID] = make(map[*websocket.Conn]bool)
	}
	boardClients[projectID][conn] = true
	boardClientsMu.Unlock()

	defer func() {
		boardClientsMu.Lock()

		if clients, exists := boardClients[projectID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(boardClients, projectID)
			}
		}

		boardClientsMu.Unlock()
		conn.Close()

		logging.Logger.Infof("WebSocket connection closed for project %d", projectID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logging.Logger.Warnf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]interface{}{
		"type":       "connected",
		"message":    "WebSocket connection established",
		"project_id": projectID,
	})

	if err != nil {
		logging.Logger.Warnf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Logger.Warnf("Failed to set write deadline for project %d: %v", projectID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logging.Logger.Warnf("Ping failed for project %d: %v", projectID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logging.Logger.Warnf("Failed to set read deadline for project %d: %v", projectID, err)
			break
		}

		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Logger.Warnf("WebSocket error for project %d: %v", projectID, err)
			}
			break
		}
	}
}
