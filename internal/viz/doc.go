// Package viz draws a running [sim.Engine] in the terminal.
//
// The view is a braille canvas centred on the reference body with fading
// orbit trails, next to a sidebar describing the selected body.
//
// # Key Bindings
//
//	P, Space  - Pause/Resume
//	R         - Clear selection
//	+, =      - Zoom in (x1.1)
//	-         - Zoom out (x0.9)
//	Tab       - Select next body (Shift+Tab: previous)
//	1-9       - Select body by position
//	Click     - Select the body under the pointer
//	Esc, Q    - Quit
package viz
