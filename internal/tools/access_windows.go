package tools

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultPathExt = ".com;.exe;.bat;.cmd"

// canExecute accepts files whose extension is listed in PATHEXT.
func canExecute(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	pathExt := os.Getenv("PATHEXT")
	if pathExt == "" {
		pathExt = defaultPathExt
	}
	for _, candidate := range filepath.SplitList(strings.ToLower(pathExt)) {
		if candidate == ext {
			return true
		}
	}
	return false
}
