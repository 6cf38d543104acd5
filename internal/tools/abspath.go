package tools

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// AbsPath resolves path against relativeTo. An absolute path (after ~
// expansion) is returned expanded but otherwise untouched. A relative path
// requires relativeTo to be absolute; when relativeTo names a file its
// directory is used.
func AbsPath(path string, relativeTo string) (string, error) {
	expanded := expandHome(path)
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	if !filepath.IsAbs(relativeTo) {
		return "", newError(ErrNotAbsolute, nil, "%s is not a valid absolute path", relativeTo)
	}

	base := relativeTo
	if isRegular(base) {
		base = filepath.Dir(base)
	}
	return filepath.Clean(expandHome(filepath.Join(base, path))), nil
}

// expandHome expands a leading ~. Forms go-homedir cannot expand (~user) are
// returned unchanged.
func expandHome(path string) string {
	out, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return out
}
