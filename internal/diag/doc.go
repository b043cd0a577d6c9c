// Package diag defines the diagnostic model shared by the lexer, compiler,
// and the embedding API's module-loading path.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the lexer and compiler (§7).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting.
//   - Model fix suggestions as structured edits a future host-side tool could
//     materialise and apply, without diag itself performing any IO.
//
// # Scope
//
// Package diag holds data and accumulation only: no terminal rendering, no
// CLI wiring, no file IO. cmd/wisp and module_api.go both own their own
// presentation — short one-line-per-diagnostic output via
// FormatShortDiagnostics — while golden.go's FormatGoldenDiagnostics exists
// purely for this package's own golden-file tests,
// where it filters stdlib/internal paths so a test fixture's expected output
// never drifts when the standard library's own source changes.
//
// # Data model
//
//   - Severity – tri-level enum (Info, Warning, Error), severity.go.
//   - Code – compact numeric identifier (see codes.go) grouped by compile
//     stage (lexical 1000s, syntax 2000s, runtime 3000s) with a stable
//     "LEX1001"/"SYN2001"/"RT3000"-style string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing a textual correction.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "declared here") rather than repeating the diagnostic's own message.
//
// # Fix suggestions
//
// Fix is intentionally minimal: a Title plus the FixEdits (Span + NewText)
// that would apply it. There is no confidence/applicability tier or lazy
// thunk — every Fix attached to a Diagnostic is already fully materialised,
// since the compiler builds them eagerly at the point it detects the
// problem (see diag.NewError(...).WithFix(...) call sites in
// internal/compiler).
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. The
// compiler, for instance, can construct a ReportBuilder via
// NewReportBuilder (or the ReportError/ReportWarning/ReportInfo helpers)
// and chain WithNote/WithFixSuggestion before calling Emit; simpler call
// sites add straight to a *Bag via diag.NewError plus Bag.Add. BagReporter
// adapts the former onto the latter.
//
// Bag itself supports sorting into a deterministic file/position/severity
// order, deduplication, and capacity limiting (§7's "diagnostics are capped
// per compile so a pathological file can't exhaust host memory").
//
// # Consumers
//
//   - internal/compiler and internal/lexer: the only diagnostic producers.
//   - module_api.go, cmd/wisp/repl.go, cmd/wisp/disasm.go: format a Bag's
//     contents into the short one-line form for a human or a host's error
//     channel once compilation reports errors.
//   - internal/diag's own golden_test.go: golden-file comparisons via
//     FormatGoldenDiagnostics.
package diag
