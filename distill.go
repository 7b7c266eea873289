// Package distill provides a synchronous main-content extraction service.
// It locates the primary readable region of an arbitrary HTML document,
// derives a stable structural locator for it, and renders the surviving
// content as clean Markdown. Documents that require script execution are
// pre-rendered through a bounded pool of headless browser sessions.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., dom/, goquery/, rod/, sqlite/).
package distill
