package testutil

import (
	"bytes"
	"path/filepath"
	"strings"
)

// NormalizeNewlines converts CRLF to LF.
func NormalizeNewlines(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

// NormalizeFilePath makes a path relative to root, with forward slashes.
// Paths outside root are returned slash-converted but otherwise unchanged.
func NormalizeFilePath(path, root string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// NormalizeOutput replaces every occurrence of root in out with $ROOT and
// normalises separators and newlines, for comparing tool output produced
// in a temporary directory.
func NormalizeOutput(out []byte, root string) []byte {
	out = NormalizeNewlines(out)
	if root == "" {
		return out
	}
	out = bytes.ReplaceAll(out, []byte(root), []byte("$ROOT"))
	if slashed := filepath.ToSlash(root); slashed != root {
		out = bytes.ReplaceAll(out, []byte(slashed), []byte("$ROOT"))
	}
	return bytes.ReplaceAll(out, []byte(`$ROOT\`), []byte("$ROOT/"))
}
