package documents

import "strings"

// CopySuffix is inserted into the name of a duplicated document
const CopySuffix = " copy"

// DuplicateName inserts CopySuffix before the extension of name, or appends
// it when there is none. The extension is the last "." followed by at least
// one non-dot character, so "a.txt" becomes "a copy.txt" and "README"
// becomes "README copy".
func DuplicateName(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return name + CopySuffix
	}
	return name[:idx] + CopySuffix + name[idx:]
}
