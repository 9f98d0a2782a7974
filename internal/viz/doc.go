// Package viz renders antenna near fields in the terminal.
//
// The live view steps a field engine on a fixed tick and draws each grid
// point as a short glyph along its field vector, colored by intensity,
// together with the antenna outline. Parameters can be adjusted while the
// simulation runs; an amplitude envelope can be (re)loaded in the
// background and takes effect between steps.
//
// Key bindings:
//
//	space      pause / resume
//	n          single step while paused
//	r          reset time, envelope and parameters
//	tab        select the next parameter
//	up/down    adjust the selected parameter
//	e / c      reload / clear the envelope
//	x/X z/Z    tilt and orbit the camera
//	+ / -      zoom
//	t          cycle theme
//	q          quit
package viz
