package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Subdirectories of an installation root searched for tools, source trees first.
var baseDirSubdirs = []string{
	"sql",
	"client",
	"share",
	"scripts",
	"bin",
	"libexec",
	"mysql_utils",
}

// LocateOptions controls a tool search. The zero value searches the platform
// defaults, appends the platform suffix and fails when nothing is found.
type LocateOptions struct {
	BaseDir      string
	SearchPATH   bool
	DefaultPaths []string
	NoExtension  bool
	Optional     bool
	Quote        bool
	// Check validates a found candidate; a rejected candidate does not stop
	// the search.
	Check func(path string) bool
}

// Locator searches the filesystem for distribution tools.
type Locator struct {
	Platform Platform
	Getenv   func(string) string
}

// NewLocator returns a locator bound to the running OS and environment.
func NewLocator() Locator {
	return Locator{Platform: CurrentPlatform(), Getenv: os.Getenv}
}

// ToolPath searches with a locator for the running OS.
func ToolPath(tool string, opts LocateOptions) (string, error) {
	return NewLocator().ToolPath(tool, opts)
}

// SearchPaths returns the ordered candidate directories for opts.
func (l Locator) SearchPaths(opts LocateOptions) []string {
	var paths []string
	if base := strings.TrimSpace(opts.BaseDir); base != "" {
		paths = append(paths, base)
		for _, sub := range baseDirSubdirs {
			paths = append(paths, filepath.Join(base, sub))
		}
	}

	if opts.SearchPATH {
		for _, dir := range filepath.SplitList(l.getenv("PATH")) {
			if dir == "" {
				continue
			}
			paths = append(paths, dir)
		}
	}

	if len(opts.DefaultPaths) > 0 {
		paths = append(paths, opts.DefaultPaths...)
	} else {
		paths = append(paths, l.platform().DefaultSearchPaths()...)
	}
	return paths
}

// ToolPath returns the path of the first candidate accepted by opts.Check.
// When nothing is accepted it fails with ErrToolNotFound, or returns "" if
// opts.Optional is set.
func (l Locator) ToolPath(tool string, opts LocateOptions) (string, error) {
	platform := l.platform()
	name := tool
	if suffix := platform.ExecutableSuffix(); !opts.NoExtension && suffix != "" &&
		!strings.HasSuffix(strings.ToLower(name), suffix) {
		name += suffix
	}

	quote := ""
	if opts.Quote {
		quote = platform.QuoteChar()
	}

	for _, raw := range l.SearchPaths(opts) {
		dir := filepath.Clean(raw)
		if !isDir(dir) {
			continue
		}

		candidate := filepath.Join(dir, name)
		if isRegular(candidate) {
			if accept(candidate, opts.Check) {
				log.Debug().Str("tool", name).Str("path", candidate).Msg("tools.ToolPath found")
				return quote + candidate + quote, nil
			}
			log.Debug().Str("tool", name).Str("path", candidate).Msg("tools.ToolPath rejected by check")
			continue
		}

		for _, alt := range platform.AlternateNames(name) {
			candidate = filepath.Join(dir, alt)
			if isRegular(candidate) && accept(candidate, opts.Check) {
				log.Debug().Str("tool", name).Str("path", candidate).Msg("tools.ToolPath found alternate")
				return quote + candidate + quote, nil
			}
		}
	}

	if opts.Optional {
		log.Debug().Str("tool", name).Msg("tools.ToolPath not found")
		return "", nil
	}
	return "", newError(ErrToolNotFound, nil, "cannot find location of %s", name)
}

func (l Locator) platform() Platform {
	if l.Platform == nil {
		return CurrentPlatform()
	}
	return l.Platform
}

func (l Locator) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

func accept(path string, check func(string) bool) bool {
	return check == nil || check(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
