// Package driver wires the passes into pipelines: load a file, optionally
// preprocess it, lex it, check it, and collect every diagnostic in one bag.
// It also runs directories in parallel, executes fixture suites, caches check
// results on disk and re-runs checks when files change.
package driver
