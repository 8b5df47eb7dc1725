// Package desktop holds the window-independent half of the desktop client:
// the Model that owns one in-process session and the screen geometry used
// to draw the board and hit-test the on-screen buttons. The ebiten window in
// cmd/desktop only reads input and paints what these types describe.
package desktop
