// internal/handlers/dispatch.go
package handlers

import (
	"context"
	"encoding/json"

	"github.com/unohall/server/internal/card"
	"github.com/unohall/server/internal/database"
	"github.com/unohall/server/internal/models"
)

// packet is one incoming client request: a route naming the action and its
// payload.
type packet struct {
	Route string          `json:"route"`
	Data  json.RawMessage `json:"data"`
}

// dispatch validates a packet's shape and the acting player's eligibility,
// then calls into the room or the game engine. Malformed payloads are
// rejected before any lookup; every state-changing action answers with one
// outcome boolean on its own route.
func (s *Server) dispatch(ctx context.Context, pkt packet, p *models.Player) {
	switch pkt.Route {
	case "login":
		var name string
		if err := json.Unmarshal(pkt.Data, &name); err != nil || name == "" || p.Name != "" {
			p.Send(false, "login")
			return
		}
		ok, err := s.Names.Claim(ctx, name)
		if err != nil {
			s.Log.Warnf("name claim for %q failed: %v", name, err)
			ok = false
		}
		if ok {
			p.Name = name
		}
		p.Send(ok, "login")

	case "lobby_list":
		p.Send(s.Rooms.List(), "lobby_list")

	case "lobby_create":
		var name string
		if err := json.Unmarshal(pkt.Data, &name); err != nil || name == "" || p.Name == "" {
			p.Send(false, "lobby_create")
			return
		}
		// Creating while in a room implies leaving it first.
		if r := s.currentRoom(p); r != nil {
			r.Leave(p)
		}
		_, ok := s.Rooms.Create(name, p)
		p.Send(ok, "lobby_create")

	case "lobby_join":
		var name string
		if err := json.Unmarshal(pkt.Data, &name); err != nil || p.Name == "" || p.RoomName() != "" {
			p.Send(false, "lobby_join")
			return
		}
		r, exists := s.Rooms.Get(name)
		if !exists {
			p.Send(false, "lobby_join")
			return
		}
		r.Join(p)

	case "lobby_leave":
		r := s.currentRoom(p)
		if r == nil {
			p.Send(false, "lobby_leave")
			return
		}
		r.Leave(p)

	case "lobby_start":
		r := s.currentRoom(p)
		if r == nil {
			p.Send(false, "lobby_start")
			return
		}
		r.Start(p)

	case "lobby_stop":
		r := s.currentRoom(p)
		if r == nil {
			p.Send(false, "lobby_stop")
			return
		}
		r.Stop(p)

	case "lobby_kick":
		var target string
		r := s.currentRoom(p)
		if err := json.Unmarshal(pkt.Data, &target); err != nil || r == nil {
			p.Send(false, "lobby_kick")
			return
		}
		r.Kick(target, p)

	case "lobby_chat":
		var text string
		r := s.currentRoom(p)
		if err := json.Unmarshal(pkt.Data, &text); err != nil || r == nil {
			p.Send(false, "lobby_chat")
			return
		}
		r.ChatMessage(text, p)

	case "uno_play_card":
		var idx int
		g := s.currentGame(p)
		if err := json.Unmarshal(pkt.Data, &idx); err != nil || g == nil {
			p.Send(false, "uno_play_card")
			return
		}
		g.PlayCard(idx, p)

	case "uno_draw_card":
		g := s.currentGame(p)
		if g == nil {
			p.Send(false, "uno_draw_card")
			return
		}
		g.DrawCard(p)

	case "uno_pick_color":
		var col int
		g := s.currentGame(p)
		if err := json.Unmarshal(pkt.Data, &col); err != nil || g == nil {
			p.Send(false, "uno_pick_color")
			return
		}
		g.ChooseColor(card.Color(col), p)

	case "uno_sync":
		g := s.currentGame(p)
		if g == nil {
			p.Send(false, "uno_sync")
			return
		}
		g.Sync(p)

	case "stats":
		if p.Name == "" {
			p.Send(false, "stats")
			return
		}
		wins, err := database.GetWins(ctx, p.Name)
		if err != nil {
			s.Log.Warnf("stats lookup for %q failed: %v", p.Name, err)
			p.Send(false, "stats")
			return
		}
		p.Send(map[string]interface{}{"wins": wins}, "stats")

	default:
		s.Log.Warnf("unknown route %q from '%s'", pkt.Route, p.Name)
	}
}
