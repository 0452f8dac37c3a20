// Package core hosts swipeable screens in a terminal.
//
// Allowed here:
// - the screen stack and the per-page gesture collaborators (navigator, surface, layer)
// - model routing, message contracts, the key registry and host commands
// - the command palette
// - mapping terminal mouse input to pointer events and driving settle frames
//
// Not allowed here:
// - gesture arbitration or drag physics (core/gesture, core/drag)
// - content screens and ANSI compositing (screens, core/widgets)
package core
