// Package diag defines the diagnostic model shared by the preprocessor, lexer
// and checker.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error; only Error fails a run.
//   - Code – numeric identifier with a stable external ID (LEX001, CHK010, PP003).
//   - Message – short human oriented text.
//   - Primary – the source.Span the problem is anchored at.
//   - Notes – optional secondary spans/messages.
//   - Fixes – optional suggestions, with or without concrete text edits.
//
// # Collection
//
// Each pipeline run owns exactly one Bag. Producers never touch the Bag
// directly: they receive a Reporter (usually BagReporter) and emit through it,
// optionally via ReportBuilder to attach notes and fixes.
//
// The Bag keeps insertion order, which is detection order. IntoSorted returns
// a copy ordered by span start with insertion order as the tiebreak. The bag
// never merges or deduplicates entries: two detections at two spans are two
// diagnostics even when their messages match. When a limit is configured,
// rejected entries are counted in Dropped so the renderer can say so.
//
// Package diag performs no formatting beyond the golden one-line form;
// rendering lives in internal/diagfmt.
package diag
