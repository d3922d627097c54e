// Package renderer builds markdown reports from bookkeeper values.
// Reports are plain markdown strings; rendering them on a terminal is
// the caller's concern.
package renderer
