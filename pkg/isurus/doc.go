// Package isurus assembles and renders text templates.
//
// An Assembler wraps user template source with a preamble of import
// declarations and helper code fragments, plus an optional postamble,
// then hands the assembled text to Go's template engine extended with
// the sprig function catalog. Imports name function modules from a
// Registry; a template can only call functions whose module it imports.
//
// Not designed to be memory-efficient: the input, the assembled template
// and the rendered output are all held in memory at once.
//
//	asm := isurus.New("X {{$myvar := 1}} {{$myvar}} {{upper \"y\"}}")
//	if err := asm.AddImport("strings"); err != nil {
//		...
//	}
//	out, err := asm.Render()
package isurus
