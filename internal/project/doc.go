// Package project loads minic.toml, the optional per-directory manifest that
// supplies defaults for the lexer, checker, preprocessor and fixture runner.
// Command-line flags take precedence over manifest values.
package project
