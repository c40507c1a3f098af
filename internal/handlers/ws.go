package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/logger"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
	"github.com/teamdash/teamdash/internal/utils"
)

var (
	teamClients   = make(map[string]map[*websocket.Conn]bool)
	teamClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastTeamRefresh tells every client watching the team to reload its
// data. Mutation handlers call this after team, membership, or task writes.
func BroadcastTeamRefresh(teamID string) {
	teamClientsMu.RLock()
	clients, exists := teamClients[teamID]
	if !exists || len(clients) == 0 {
		teamClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	teamClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logger.L.Warnw("failed to set write deadline for broadcast", "team_id", teamID, "error", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Team data updated",
			"team_id": teamID,
		})

		if err != nil {
			logger.L.Warnw("failed to broadcast refresh", "team_id", teamID, "error", err)
			teamClientsMu.Lock()
			if clients, exists := teamClients[teamID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(teamClients, teamID)
				}
			}
			teamClientsMu.Unlock()
			conn.Close()
		}
	}
}

// TeamFeed upgrades the connection and keeps it registered for refresh
// events. Only members of the team may subscribe.
func TeamFeed(c *gin.Context) {
	teamID, ok := paramID(c, "team_id")
	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var membership models.TeamMembership
	if err := db.DB.Where("team_id = ? AND user_id = ?", teamID, userID).First(&membership).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied: user is not a member of this team"})
		return
	}

	key := c.Param("team_id")

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
		logger.L.Warnw("websocket upgrade failed", "team_id", key, "error", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.L.Warnw("failed to set initial read deadline", "team_id", key, "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	teamClientsMu.Lock()
	if teamClients[key] == nil {
		teamClients[key] = make(map[*websocket.Conn]bool)
	}
	teamClients[key][conn] = true
	teamClientsMu.Unlock()

	defer func() {
		teamClientsMu.Lock()

		if clients, exists := teamClients[key]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(teamClients, key)
			}
		}

		teamClientsMu.Unlock()
		conn.Close()

		logger.L.Debugw("websocket connection closed", "team_id", key)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
		"team_id": key,
	})
	if err != nil {
		logger.L.Warnw("failed to send welcome message", "team_id", key, "error", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L.Warnw("websocket error", "team_id", key, "error", err)
			}
			break
		}
	}
}
