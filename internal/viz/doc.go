// Package viz previews a plate in the terminal.
//
//   - [Canvas]: Braille pixel canvas, one color index per cell
//   - [Plate]: projects plate coordinates onto a canvas
//   - [Model]: Bubble Tea program animating the display frames
//   - [Trajectories]: asciigraph chart of every y series
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from frame 1
//	[ ]   - Step one frame back/forward
//	L     - Toggle looping
//	T     - Cycle color themes
//	G     - Toggle GIF recording of the preview
//	?     - Show help overlay
//	Q     - Quit
package viz
