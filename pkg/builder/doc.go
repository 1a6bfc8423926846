// Package builder implements the drag-and-drop form builder as a plain
// reducer over an ordered element list. Three drag sources (the generic
// palette, the predefined field library and the document library) funnel
// into one Insert operation; reorder, select, update, delete and the preview
// toggle complete the operation set. Every operation is synchronous and
// total: unknown ids and unknown library entries are silent no-ops.
//
// An Editor is owned by a single flow of control. Callers that share one
// across goroutines must serialise access themselves.
package builder
