// Package errors provides structured, actionable error values for shellkit.
//
// Errors carry a stable code, a category, a short message and optional
// detail, suggestion and route location. They print as a readable terminal
// block with Format, a single line with FormatCompact, or JSON with
// FormatJSON.
//
// # Error Codes
//
//   - R001-R099: route tree and navigation
//   - M001-M099: route manifests
//   - S001-S099: content stores
//   - C001-C099: configuration
//
// # Usage
//
//	err := errors.New("R001").
//	    AtRoute("/settings", 2).
//	    WithSuggestion("Move the children to a sibling path route")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARNING R001: Index route declares children
//	//
//	//   route /settings (child #2)
//	//
//	//   Index routes are leaves. Their children are never matched and were
//	//   dropped from the compiled tree.
//	//
//	//   Hint: Move the children to a sibling path route
package errors
