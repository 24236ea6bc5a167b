// Package ui implements the terminal upload overlay using bubbletea's Elm architecture.
//
// The centerpiece is [Modal], a progress overlay shown while a large submission
// transfers in the background. It implements session.ProgressSink, so the
// session controller drives it the same way it drives any other sink: renders
// arrive as messages via program.Send and flow through the standard
// Init/Update/View cycle.
//
// The overlay stays up until the controller hides it. Pressing esc or ctrl+c
// requests cancellation; once a failure is displayed the same keys dismiss it.
package ui
