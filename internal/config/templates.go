package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

func Template() string {
	return gadgetctlTemplate
}

// WriteTemplate writes the sample config with owner-only permissions. Without
// overwrite an existing file is left untouched.
func WriteTemplate(path string, overwrite bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config already exists: %s", path)
		}
		return err
	}
	if _, err := f.WriteString(gadgetctlTemplate); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

const gadgetctlTemplate = `# gadgetctl configuration
base_dir = "/usr/local/mysql"
search_path = true
default_paths = []
option_dir = "~"
log_level = "info"
# metrics_file = "/var/lib/node_exporter/textfile/gadgetctl.prom"
gadgets = ["gadget.mysqld", "gadget.tool"]

[server]
tool = "mysqld"
host = "127.0.0.1"
port = 3306
`
