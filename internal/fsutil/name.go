package fsutil

import (
	"strings"
	"unicode"
)

// reserved holds characters that are rejected by at least one common file system.
const reserved = `<>:"|?*/\`

// IsSafeName reports whether name can be used verbatim as a single file or
// directory name on every supported platform.
func IsSafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.TrimSpace(name) != name {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) || strings.ContainsRune(reserved, r) {
			return false
		}
	}
	return true
}
