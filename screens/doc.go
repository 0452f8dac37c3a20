// Package screens contains the pages stacked in the swipe demo.
//
// Allowed here:
// - screen implementations that satisfy core.Screen
// - page content and scrolling
//
// Not allowed here:
// - swipe arbitration or page stacking (core, core/gesture)
// - low-level widget/compositing primitives (core/widgets)
package screens
