package merge

import (
	"bytes"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// maxDiffBytes bounds the input of a conflict diff
const maxDiffBytes = 1 << 20

// UnifiedDiff renders a unified diff of a file being overwritten
func UnifiedDiff(path, previous, winner string, a, b []byte) string {
	fromFile := fmt.Sprintf("a/%s (%s)", path, previous)
	toFile := fmt.Sprintf("b/%s (%s)", path, winner)
	if len(a)+len(b) > maxDiffBytes || isBinary(a) || isBinary(b) {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ content omitted (binary or too large) @@\n", fromFile, toFile)
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ diff failed: %v @@\n", fromFile, toFile, err)
	}
	return s
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
