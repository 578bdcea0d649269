package huffman

import (
	"path/filepath"
	"strings"
)

// EncodedName is the file name an encoded copy of path is written to.
func EncodedName(path string) string { return path + Extension }

// DecodedName strips Extension from path. Any other extension is replaced
// with ".txt", and a name that would come out unchanged gets ".txt" appended
// so the input is never overwritten.
func DecodedName(path string) string {
	if base, ok := strings.CutSuffix(path, Extension); ok && filepath.Base(path) != Extension {
		return base
	}
	name := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	if name == path {
		name = path + ".txt"
	}
	return name
}
