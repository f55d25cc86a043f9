// internal/models/message.go
package models

// Message is the wire envelope for everything sent to a client: a route
// naming the concern and an arbitrary JSON payload.
type Message struct {
	Route string      `json:"route"`
	Data  interface{} `json:"data"`
}

// Broadcast sends data on route to every player except those in exclude.
// Delivery is non-blocking per player; a full outbound queue drops the
// message for that player only.
func Broadcast(data interface{}, route string, players []*Player, exclude ...*Player) {
	for _, p := range players {
		skip := false
		for _, ex := range exclude {
			if p == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		p.Send(data, route)
	}
}
