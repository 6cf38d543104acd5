package tools

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"gopkg.in/ini.v1"
)

const optionFileSuffix = ".cnf"

// optionFileFormat writes values verbatim: the server does not understand
// inline comments or backtick quoting, so ";" and "#" stay part of the value.
var optionFileFormat = ini.LoadOptions{AllowBooleanKeys: true, IgnoreInlineComment: true}

func init() {
	// One "key = value" per line, no column alignment.
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// Option is one key of an option file section. NoValue options are written as
// a bare key.
type Option struct {
	Key     string
	Value   string
	NoValue bool
}

// OptionSection is an ordered list of options under one [section] header.
type OptionSection struct {
	Name    string
	options []Option
	index   map[string]int
}

// Set adds key or replaces its value in place.
func (s *OptionSection) Set(key string, value string) *OptionSection {
	s.put(Option{Key: key, Value: value})
	return s
}

// SetFlag adds key without a value.
func (s *OptionSection) SetFlag(key string) *OptionSection {
	s.put(Option{Key: key, NoValue: true})
	return s
}

func (s *OptionSection) Get(key string) (Option, bool) {
	i, ok := s.index[key]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Options returns the options in insertion order.
func (s *OptionSection) Options() []Option {
	return append([]Option(nil), s.options...)
}

func (s *OptionSection) put(opt Option) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[opt.Key]; ok {
		s.options[i] = opt
		return
	}
	s.index[opt.Key] = len(s.options)
	s.options = append(s.options, opt)
}

// OptionFile is the content of a server option file with section and key
// insertion order preserved.
type OptionFile struct {
	sections []*OptionSection
	index    map[string]*OptionSection
}

func NewOptionFile() *OptionFile {
	return &OptionFile{index: make(map[string]*OptionSection)}
}

// OptionFileFromMap builds content from nested maps. Map iteration order is not
// stable, so sections and keys are sorted by name.
func OptionFileFromMap(sections map[string]map[string]string) *OptionFile {
	f := NewOptionFile()
	for _, name := range sortedKeys(sections) {
		sec := f.Section(name)
		values := sections[name]
		for _, key := range sortedKeys(values) {
			sec.Set(key, values[key])
		}
	}
	return f
}

// Section returns the named section, appending it when absent.
func (f *OptionFile) Section(name string) *OptionSection {
	if f.index == nil {
		f.index = make(map[string]*OptionSection)
	}
	if sec, ok := f.index[name]; ok {
		return sec
	}
	sec := &OptionSection{Name: name, index: make(map[string]int)}
	f.index[name] = sec
	f.sections = append(f.sections, sec)
	return sec
}

func (f *OptionFile) Lookup(name string) (*OptionSection, bool) {
	sec, ok := f.index[name]
	return sec, ok
}

func (f *OptionFile) Sections() []*OptionSection {
	return append([]*OptionSection(nil), f.sections...)
}

func (f *OptionFile) toINI() (*ini.File, error) {
	cfg := ini.Empty(optionFileFormat)
	if f == nil {
		return cfg, nil
	}
	for _, sec := range f.sections {
		out, err := cfg.NewSection(sec.Name)
		if err != nil {
			return nil, err
		}
		for _, opt := range sec.options {
			if opt.NoValue {
				_, err = out.NewBooleanKey(opt.Key)
			} else {
				_, err = out.NewKey(opt.Key, opt.Value)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}

// OptionFileOptions selects where an option file is created. Dir defaults to
// the user home directory; an empty Name produces a unique "*.cnf" name.
type OptionFileOptions struct {
	Name string
	Dir  string
}

// CreateOptionFile writes content to a newly created file readable only by
// the owner and returns its path. A named file is created exclusively and never
// overwritten.
func CreateOptionFile(content *OptionFile, opts OptionFileOptions) (string, error) {
	dir, err := optionFileDir(opts.Dir)
	if err != nil {
		return "", err
	}
	cfg, err := content.toINI()
	if err != nil {
		return "", newError(ErrOptionFileCreate, err, "unable to build option file content: %v", err)
	}

	log.Debug().Str("dir", dir).Msg("tools.CreateOptionFile creating option file")
	f, err := openOptionFile(dir, opts.Name)
	if err != nil {
		return "", err
	}
	path := f.Name()
	log.Debug().Str("path", path).Msg("tools.CreateOptionFile created")

	if _, err := cfg.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", newError(ErrOptionFileCreate, err, "unable to write option file '%s': %v", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", newError(ErrOptionFileCreate, err, "unable to write option file '%s': %v", path, err)
	}
	log.Debug().Str("path", path).Msg("tools.CreateOptionFile written")
	return path, nil
}

// ReadOptionFile loads an option file. Bare keys read back with value "true".
func ReadOptionFile(path string) (*OptionFile, error) {
	cfg, err := ini.LoadSources(optionFileFormat, path)
	if err != nil {
		return nil, newError(ErrOptionFileRead, err, "unable to read option file '%s': %v", path, err)
	}
	out := NewOptionFile()
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		dst := out.Section(sec.Name())
		for _, key := range sec.Keys() {
			dst.Set(key.Name(), key.Value())
		}
	}
	return out, nil
}

func optionFileDir(raw string) (string, error) {
	if raw == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", newError(ErrInvalidDir, err, "unable to resolve home directory: %v", err)
		}
		return home, nil
	}
	dir := filepath.Clean(expandHome(raw))
	if !isDir(dir) {
		return "", newError(ErrInvalidDir, nil, "option file directory '%s' is not a valid folder. Check if it exists.", dir)
	}
	return dir, nil
}

func openOptionFile(dir string, name string) (*os.File, error) {
	if name == "" {
		f, err := os.CreateTemp(dir, "*"+optionFileSuffix)
		if err != nil {
			return nil, newError(ErrOptionFileCreate, err, "unable to create randomly named option file in directory '%s': %v", dir, err)
		}
		return f, nil
	}

	path := filepath.Join(dir, name)
	if _, err := os.Lstat(path); err == nil {
		return nil, optionFileExists(path, nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, optionFileExists(path, err)
		}
		return nil, newError(ErrOptionFileCreate, err, "unable to create named option file '%s': %v", path, err)
	}
	return f, nil
}

func optionFileExists(path string, cause error) *Error {
	return newError(ErrOptionFileExists, cause, "unable to create option file '%s' since a file of the same name already exists", path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
