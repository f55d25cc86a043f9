// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/unohall/server/internal/models"
)

// WSHandler upgrades the connection and runs the read/write pumps for one
// player. Every request and notification flows over this single socket as
// {route, data} packets.
func WSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // Adjust in production.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "uno" {
			c.Close(BadSubprotocolError, "client must speak the uno subprotocol")
			return
		}

		p := models.NewPlayer("")
		logger.WithFields(logrus.Fields{
			"session": p.ID,
			"remote":  r.RemoteAddr,
		}).Info("WebSocket connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writePump(ctx, c, p, logger)
		readPump(ctx, c, s, p, logger)

		// Disconnection is an implicit leave plus release of the claimed
		// name; it must always run to completion.
		if rm := s.currentRoom(p); rm != nil {
			rm.Leave(p)
		}
		if p.Name != "" {
			if err := s.Names.Release(context.Background(), p.Name); err != nil {
				logger.Warnf("failed to release name %q: %v", p.Name, err)
			}
			logger.Infof("user '%s' disconnected", p.Name)
		} else {
			logger.Info("unauthenticated user disconnected")
		}
	}
}

// readPump reads packets off the socket and dispatches them until the
// connection closes.
func readPump(ctx context.Context, c *websocket.Conn, s *Server, p *models.Player, logger *logrus.Logger) {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return
			}
			logger.Debugf("read error for session %s: %v", p.ID, err)
			return
		}
		if typ != websocket.MessageText {
			logger.Debugf("ignoring non-text message from session %s", p.ID)
			continue
		}

		var pkt packet
		if err := json.Unmarshal(msg, &pkt); err != nil {
			logger.Debugf("invalid json from session %s: %v", p.ID, err)
			continue
		}
		s.dispatch(ctx, pkt, p)
	}
}

// writePump drains the player's outbound queue onto the socket and keeps
// the connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, p *models.Player, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.Out:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal outgoing msg for session %s: %v", p.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Debugf("write failed for session %s: %v", p.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Debugf("ping failed for session %s, assuming disconnect: %v", p.ID, err)
				return
			}
		}
	}
}
