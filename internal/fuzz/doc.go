// Package fuzztests houses Go fuzz harnesses that exercise the early
// compilation pipeline (source -> lexer -> parser). Its goal is to smoke
// test robustness and guard against panics on arbitrary inputs.
package fuzztests
