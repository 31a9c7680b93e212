// Package checker validates the structure of a minic token stream.
//
// The checker is a keyword-directed recursive descent without backtracking.
// It does not build a tree: it only tracks brace depth and reports every
// grammar violation it can find, recovering in panic mode between them.
package checker
