// Package input turns raw UI stimuli into engine moves.
//
// A Dispatcher stands in for the window event queue: every input source
// (keyboard, on-screen buttons, WebSocket clients, REST calls) delivers keys
// through it and listeners receive them one at a time. An Adapter is the
// listener bound to a single engine. It maps keys to directions, forwards
// them while the session is in progress and reports the winning move through
// its OnWon hook.
package input
