package vm

import (
	"fmt"
	"strings"
)

// shellEscape escapes a string for safe use as a single shell word.
// Single quotes in the input become '\''.
func shellEscape(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return fmt.Sprintf("'%s'", escaped)
}
