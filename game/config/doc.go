// Package config loads maze layouts for the greeting server.
//
// Layouts are JSON or YAML files in the layouts directory. Each file holds
// the grid (0=path, 1=wall, 2=start, 3=goal), the celebration delay and the
// texts shown around the maze:
//
//	name: reference
//	description: The 10x10 greeting maze
//	celebration_delay_ms: 2500
//	layout:
//	  - [2, 0, 1, 1, 1, 1, 1, 1, 1, 1]
//	  - ...
//	messages:
//	  title: Help him find her!
//	  hint: Use arrow keys or buttons
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := manager.LoadConfig("small")
//	def, err := layout.Definition()
//
// A layout named "reference" is always available; a file with that name
// overrides the built-in copy and becomes the default.
package config
