// Package ui provides small presentational building blocks: Card, Pill and
// Toggle.
//
// Each block is a plain struct that renders to a *vdom.VNode. Callbacks are
// optional; when one is set the block registers the matching event handler
// and derives the accessibility attributes that go with it (role, tabindex,
// aria-pressed, aria-checked). Blocks keep no state: the caller owns
// Selected and Checked and re-renders after a callback.
//
//	ui.Card{
//	    Title:    "Reports",
//	    Body:     vdom.Text("Monthly numbers"),
//	    OnSelect: func() { nav("/reports") },
//	}.Render()
package ui
