// Package websocket pushes live game state to watchers over WebSocket.
//
// A central Hub owns every connection from a single goroutine (Run). Each
// client gets a read pump, which only keeps the connection alive, and a write
// pump, which forwards hub messages and sends pings.
//
// Message Protocol:
//
// Watchers never send actions over the socket; they are read-only. Outgoing
// messages are JSON:
//   - {"event": "snapshot", "state": {...}} right after connecting
//   - {"event": "state_update", "state": {...}, "events": [...]} after every
//     applied action, whichever transport it came from
//
// Usage:
//
//	hub := websocket.NewHub(mon)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, &websocket.Message{Event: websocket.EventSnapshot, State: state})
//	})
//
// Cancelling the context passed to Run disconnects every client.
package websocket
