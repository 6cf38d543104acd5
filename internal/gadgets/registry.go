package gadgets

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrGadgetExists    = errors.New("gadget already exists")
	ErrGadgetNil       = errors.New("gadget is nil")
	ErrInvalidMetadata = errors.New("invalid gadget metadata")
	ErrUnknownGadget   = errors.New("unknown gadget")
)

// Registry stores gadgets by stable identifier. Short aliases ("mysqld") map
// onto registered ids and share one namespace with them.
type Registry struct {
	items   map[string]Gadget
	aliases map[string]string
}

// NewRegistry creates an empty gadget registry.
func NewRegistry() *Registry {
	return &Registry{
		items:   make(map[string]Gadget),
		aliases: make(map[string]string),
	}
}

// ValidateMetadata checks required metadata fields and id format.
func ValidateMetadata(meta Metadata) error {
	id := strings.TrimSpace(meta.ID)
	name := strings.TrimSpace(meta.Name)
	desc := strings.TrimSpace(meta.Description)
	if id == "" || name == "" || desc == "" {
		return fmt.Errorf("%w: id, name, and description are required", ErrInvalidMetadata)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidMetadata, id)
	}
	return nil
}

// Register adds a gadget to the registry.
func (r *Registry) Register(g Gadget) error {
	if g == nil {
		return ErrGadgetNil
	}

	meta := g.Metadata()
	if err := ValidateMetadata(meta); err != nil {
		return err
	}

	if r.taken(meta.ID) {
		return fmt.Errorf("%w: %s", ErrGadgetExists, meta.ID)
	}
	r.items[meta.ID] = g
	return nil
}

// Alias makes alias resolve to the registered gadget id.
func (r *Registry) Alias(alias string, id string) error {
	alias = strings.TrimSpace(alias)
	id = strings.TrimSpace(id)
	if !isValidID(alias) {
		return fmt.Errorf("%w: invalid alias format %q", ErrInvalidMetadata, alias)
	}
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGadget, id)
	}
	if r.taken(alias) {
		return fmt.Errorf("%w: %s", ErrGadgetExists, alias)
	}
	r.aliases[alias] = id
	return nil
}

// Resolve returns a gadget by id or alias.
func (r *Registry) Resolve(name string) (Gadget, bool) {
	name = strings.TrimSpace(name)
	if g, ok := r.items[name]; ok {
		return g, true
	}
	id, ok := r.aliases[name]
	if !ok {
		return nil, false
	}
	return r.items[id], true
}

// Aliases lists the aliases of id in sorted order.
func (r *Registry) Aliases(id string) []string {
	var out []string
	for alias, target := range r.aliases {
		if target == id {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Registry) taken(name string) bool {
	_, isID := r.items[name]
	_, isAlias := r.aliases[name]
	return isID || isAlias
}

// ListMetadata returns deterministic metadata ordering by id.
func (r *Registry) ListMetadata() []Metadata {
	list := make([]Metadata, 0, len(r.items))
	for _, g := range r.items {
		list = append(list, g.Metadata())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if (i == 0 || i == len(id)-1) && isSep {
			return false
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
