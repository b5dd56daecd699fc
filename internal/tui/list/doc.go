// Package listview provides a sortable, scrolling results list for Bubble Tea
// views.
//
// Rows are addressed by a caller-supplied key, so replacing the items keeps
// the selected row and the scroll offset where the user left them. Only the
// rows inside the viewport are rendered. Text columns sort with
// golang.org/x/text/collate.
package listview
