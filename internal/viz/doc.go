// Package viz renders entropywalk simulations in the terminal.
//
// The live view is a Bubble Tea program showing one braille [Canvas] per
// population side by side, each with a stats panel underneath. Trails are
// kept in the view only and never reach the simulation or disk.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	C     - Clear trails
//	H     - Toggle heatmap overlay
//	R     - Reset statistics
//	G     - Toggle distribution charts
//	T     - Cycle color themes
//	Q/Esc - Quit
//
// Charts are drawn with asciigraph: direction distribution against the
// ideal 25%, a 30-bin distance histogram and a normalized comparison.
package viz
