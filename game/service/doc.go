// Package service provides the operations layer of the maze greeting server.
//
// GameService sits between the transports (REST, WebSocket, MCP) and the
// session host. It resolves layouts, creates and looks up sessions, turns
// direction names and raw keys into session input and shapes the results
// for clients. It installs itself as the session manager's completion
// handler and forwards state updates and the "completed" event to a
// Notifier, usually the WebSocket hub.
//
// Usage:
//
//	sessionMgr := session.NewManager(ctx)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithNotifier(hub))
//
//	info, err := gameService.CreateSession(ctx, "reference")
//	result, err := gameService.Press(ctx, info.ID, "ArrowRight")
//
// Rejected moves are results, not errors. Errors wrap the sentinel values of
// the session, config and maze packages and can be matched with errors.Is.
package service
