// Package forthic implements the Forthic interpreter core: tokenizer,
// compile/execute dispatcher, module dictionary, and tagged value model.
// Standard-library words live in the stdlib subpackage; a REPL/file runner
// lives in cmd/forthic.
package forthic
