// Package grid implements the character-grid compositing engine.
//
// An Image is three parallel row-major slices (ink colour, paper colour and
// glyph code) over a width×height rectangle. All drawing goes through the
// primitives in this package, which clip against the image bounds and never
// fail: writes outside the image are dropped, degenerate rectangles are
// skipped. Blits copy a clipped rectangle between two images while keeping
// the three slices in step.
//
// A Frame is a short-lived view over the renderer's live image, handed to an
// application for a single draw call.
package grid
