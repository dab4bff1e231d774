// Package ui implements the import dashboard using bubbletea's Elm architecture.
//
// The dashboard shows a single screen:
//   - queue counters (waiting, active, completed, failed)
//   - an error banner naming the API base URL when the last log fetch failed
//   - the import history table, one row per entry in server order
//   - a blocking notice after a manual trigger settles
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving results via the [Msg] union type.
// Requests run as [tea.Cmd]s bound to the model's lifecycle context; every fetch carries a per-endpoint sequence
// number and only a response newer than the last applied one changes state.
//
// Keys: t (trigger), r (refresh), enter/esc (dismiss notice), q (quit).
package ui
