// Package fuzztests houses Go fuzz harnesses for the minic front-end
// (source -> preprocess -> lexer -> checker). They guard against panics,
// hangs and broken token tiling on arbitrary inputs.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
