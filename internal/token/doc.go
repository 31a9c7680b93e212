// Package token defines lexical token kinds for the minic front end.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span, keywords included.
//   - Kind is a closed set; Kind.Category is total over it.
//   - true/false lex as BoolLit, not as keywords.
//   - Comments are ordinary tokens of kind Comment; consumers that only care
//     about grammar drop them with StripComments.
package token
