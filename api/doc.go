// Package api provides the HTTP REST API of the maze greeting server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "small"}, optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Close and remove a session
//
// Input and State:
//   - GET /api/sessions/{id}/state - Current position, status and grid
//   - POST /api/sessions/{id}/move - Press a direction button ({"direction": "up", "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Several moves, stopping at the first rejection ({"moves": [...]})
//   - POST /api/sessions/{id}/press - Deliver a raw key ({"key": "ArrowUp"}); unknown keys are ignored
//   - POST /api/sessions/{id}/reset - Start over from the start cell
//   - GET /api/sessions/{id}/history - Paginated attempts (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/cells/{x}/{y} - Describe one cell
//
// Layouts:
//   - GET /api/layouts - List layouts
//   - GET /api/layouts/{name} - Get one layout
//
// Other:
//   - GET /api/health - Liveness probe
//   - GET /ws?session={id} - WebSocket upgrade, see package websocket
//
// Move results carry the engine outcome (moved, won, blocked, out_of_bounds,
// already_solved). A rejected move is a successful request with
// "success": false, never an HTTP error.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the
// underlying sentinel error: 404 for unknown sessions or layouts, 400 for
// malformed input or unknown directions, 409 for duplicate session IDs.
//
//	{
//	  "error": "session ab12: session not found"
//	}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
