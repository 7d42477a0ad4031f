// Package scan implements the walk → extract → collect pipeline:
// it enumerates source files under a root, lexically matches
// function-like and struct-like declarations, and collects one
// Record per match.
package scan

// Symbol kinds produced by the extractor.
const (
	KindFunction = "function"
	KindStruct   = "struct"
)

// Record is one extracted symbol: a function-like or struct-like
// declaration together with its attached doc comment. Records are
// immutable once created; duplicates across files are preserved.
type Record struct {
	Type       string `json:"type"`        // "function" or "struct"
	Name       string `json:"name"`        // captured identifier
	Params     string `json:"params"`      // raw parameter-list text, "" for structs
	Doc        string `json:"doc"`         // preceding comment lines, "" if none
	SourceFile string `json:"source_file"` // path of the file the match came from
}
