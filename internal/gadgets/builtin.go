package gadgets

import (
	"fmt"
	"strings"
)

type builtin struct {
	id      string
	alias   string
	factory Factory
}

// builtins is the registration table consulted at startup.
var builtins = []builtin{
	{id: "gadget.mysqld", alias: "mysqld", factory: NewMysqld},
	{id: "gadget.tool", alias: "tool", factory: NewTool},
}

// BuiltinIDs lists the ids of every builtin gadget.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(builtins))
	for _, b := range builtins {
		ids = append(ids, b.id)
	}
	return ids
}

// BuildRegistry instantiates the requested builtins by id or alias. An empty
// list or "all" builds every builtin; "none" entries are skipped.
func BuildRegistry(ids []string, env Env) (*Registry, error) {
	reg := NewRegistry()
	if len(ids) == 0 {
		ids = []string{"all"}
	}

	seen := make(map[string]struct{})
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" || id == "none" {
			continue
		}
		matched := false
		for _, b := range builtins {
			if id != "all" && id != b.id && id != b.alias {
				continue
			}
			matched = true
			if _, ok := seen[b.id]; ok {
				continue
			}
			seen[b.id] = struct{}{}
			g, err := b.factory(env)
			if err != nil {
				return nil, fmt.Errorf("build %s: %w", b.id, err)
			}
			if err := reg.Register(g); err != nil {
				return nil, err
			}
			if err := reg.Alias(b.alias, b.id); err != nil {
				return nil, err
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGadget, id)
		}
	}
	return reg, nil
}
