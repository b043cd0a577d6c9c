package source

import (
	"path/filepath"
	"slices"
	"strings"
)

// normalizeCRLF rewrites every \r\n into \n, leaving a lone \r untouched.
// Returns the (possibly unchanged) slice and whether any replacement fired.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol resolves a byte offset to a 1-based line/column using binary
// search over lineIdx, the byte offsets of every '\n' in the file (§4.2's
// FileSet.Resolve is the only caller that matters at runtime; the compiler
// and diag.FormatShortDiagnostics both go through it for every reported
// span).
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Binary search for the last lineIdx[i] < off: the '\n' ending the line
	// before the one off sits on.
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	startOff := lineIdx[hi] + 1 // this line starts right after that '\n'
	return LineCol{Line: uint32(hi + 2), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath resolves path to an absolute, slash-normalized form, for
// File.FormatPath's "absolute" mode.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath expresses target relative to baseDir, for File.FormatPath's
// "relative" mode and diag.FormatGoldenDiagnostics's path rendering (so a
// golden fixture's expected output stays the same regardless of which
// machine or checkout directory it runs from). When target doesn't fall
// under baseDir at all — a stdlib module loaded from outside the project,
// say — filepath.Rel would need a leading ".." to express it, which would
// make golden output depend on how deeply nested the project happens to
// be; RelativePath falls back to target's own normalized path instead.
func RelativePath(target, baseDir string) (string, error) {
	rel, err := filepath.Rel(baseDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(target), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns path's final element, for File.FormatPath's "basename"
// mode and its "auto" mode's long-path fallback.
func BaseName(path string) string {
	return filepath.Base(path)
}
