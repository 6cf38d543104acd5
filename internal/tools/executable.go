package tools

import (
	"os"

	"github.com/rs/zerolog/log"
)

// IsExecutable reports whether path is an existing regular file the current
// process may execute.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		log.Debug().Str("path", path).Msg("tools.IsExecutable file not found")
		return false
	}
	if !canExecute(path) {
		log.Debug().Str("path", path).Msg("tools.IsExecutable exists but is not executable")
		return false
	}
	return true
}
