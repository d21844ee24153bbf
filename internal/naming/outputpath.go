package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned by [OutputPath] when a candidate cannot be
// expressed relative to the input root.
var ErrOutsideRoot = errors.New("path is not under input root")

// OutputPath mirrors candidate from inputRoot onto outputRoot and replaces
// its final extension with ext (e.g. ".jpg"), whatever the original
// extension or its case:
//
//	<inputRoot>/a/b/photo.PNG -> <outputRoot>/a/b/photo.jpg
//
// A base name whose only dot is the leading one (".png") has no extension;
// ext is appended to it instead.
func OutputPath(candidate, inputRoot, outputRoot, ext string) (string, error) {
	rel, err := filepath.Rel(inputRoot, candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutsideRoot, candidate, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, candidate)
	}
	return filepath.Join(outputRoot, replaceExt(rel, ext)), nil
}

func replaceExt(path, ext string) string {
	base := filepath.Base(path)
	old := filepath.Ext(base)
	if old == base {
		old = ""
	}
	return strings.TrimSuffix(path, old) + ext
}
