// Package viz renders a running world in the terminal.
//
// The live view is a Bubble Tea model that steps a [dynamo.World] from
// wall-clock ticks and draws it on a braille [Canvas]:
//
//   - [Model]: live view with a stats panel and an energy chart
//   - [RunInteractive]: preset picker that launches the live view
//   - Five colour themes; bodies are coloured by ID
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Regenerate the bodies and zero the counters
//	+/-   - Double/halve simulation speed
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Replay (rewind/forward)
//	Q/Esc - Quit
//
// # Recording
//
// The G key records the canvas as a GIF animation, written to
// [DefaultGIFPath] unless another path is configured.
package viz
