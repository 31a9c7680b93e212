// Package preprocess implements the minic preprocessor: comment stripping,
// #define/#undef, #ifdef/#ifndef/#else/#endif and object-like macro expansion.
//
// Назначение: подготовить текст для лексера, сохранив номера строк.
// Не делает: function-like макросы, #include, #if с выражениями.
package preprocess
