package scan

import (
	"regexp"
	"strings"
)

// The extractor is lexical, not grammatical: declarations are located
// with regular expressions against the raw file text. Nested
// parentheses, generic type parameters and multi-line signatures do
// not match and are skipped; that trade-off is intentional, keeping
// the tool free of any real parser.
//
// Both patterns capture the block of consecutive // comment lines
// directly above the declaration. A blank line between comment and
// declaration breaks the chain, so the comment does not attach.
var (
	funcRe = regexp.MustCompile(
		`(?m)^((?:[ \t]*//[^\n]*\n)*)[ \t]*func\s+(?:\([^()\n]*\)\s+)?(\w+)\s*\(([^()\n]*)\)`)
	structRe = regexp.MustCompile(
		`(?m)^((?:[ \t]*//[^\n]*\n)*)[ \t]*type\s+(\w+)\s+struct\s*\{`)
)

// Extract runs both matching passes over one file's content and
// returns its records: every function-like match in source order,
// then every struct-like match in source order.
func Extract(content string, sourceFile string) []Record {
	var records []Record

	for _, m := range funcRe.FindAllStringSubmatch(content, -1) {
		records = append(records, Record{
			Type:       KindFunction,
			Name:       m[2],
			Params:     m[3],
			Doc:        joinDoc(m[1]),
			SourceFile: sourceFile,
		})
	}

	for _, m := range structRe.FindAllStringSubmatch(content, -1) {
		records = append(records, Record{
			Type:       KindStruct,
			Name:       m[2],
			Params:     "",
			Doc:        joinDoc(m[1]),
			SourceFile: sourceFile,
		})
	}

	return records
}

// joinDoc normalizes a captured comment block: each line is trimmed of
// surrounding whitespace and the lines are joined with "\n", top to
// bottom. An empty block yields "".
func joinDoc(block string) string {
	if block == "" {
		return ""
	}

	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}
