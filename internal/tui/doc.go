// Package tui implements the traceviewer terminal user interface.
//
// It hosts the timeline on a grid of terminal cells, built with
// Charmbracelet's BubbleTea, Lipgloss, and Bubbles libraries. The
// timeline package supplies the frame; this package only supplies a
// draw.Surface for it and maps keys and the mouse onto viewport.State.
//
// Component architecture:
//
//	model.go     root model, message routing, Init/Update
//	keys.go      key bindings and help
//	cells.go     draw.Surface on terminal cells
//	theme.go     centralized color + style definitions
//	header.go    top bar and status footer
//	timeline.go  frame rendering with row scrolling
//	detail.go    selected function totals + sample text
//	tracelist.go recent traces (initial screen)
//	helpers.go   truncation, clamping
package tui
