// Package session hosts maze sessions for the greeting server.
//
// A Session wires one navigation engine to its input listener and its
// completion signal:
//
//	dispatcher -> input.Adapter -> engine.Engine
//	                   |
//	                   +-- Won --> signal.Completion --(delay)--> CompletionHandler
//
// Open registers the listener and ties the session to a context; Close
// releases the listener and cancels a pending completion on every exit path
// (delete, expiry, reset of the process context, server shutdown).
//
// Manager stores sessions under 4-character hex IDs, looked up
// case-insensitively. It is safe for concurrent use.
//
// Usage:
//
//	manager := session.NewManager(ctx)
//	manager.SetCompletionHandler(func(s *session.Session) {
//		log.Printf("session %s finished", s.ID)
//	})
//
//	sess, err := manager.Create("", layout)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Press(input.ArrowRight)
package session
