package catalog

import (
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"resumescore/internal/errors"
)

// DefaultRole is the fallback when a requested role is unknown.
const DefaultRole = "Full Stack Developer"

// Catalog maps job role names to their required skill lists. Lookups
// are case-insensitive; an unknown role resolves to the default role.
// The catalog can be replaced atomically, which the file watcher uses
// for hot reload.
type Catalog struct {
	mu          sync.RWMutex
	roles       map[string][]string
	defaultRole string
}

// New returns a catalog seeded with the builtin role dictionary.
func New() *Catalog {
	return &Catalog{
		roles:       builtinRoles,
		defaultRole: DefaultRole,
	}
}

// NewFromFile returns a catalog loaded from a YAML file of role names
// to skill lists. The builtin default role is appended if the file
// does not define it, so the fallback always resolves.
func NewFromFile(path string) (*Catalog, error) {
	c := New()
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile replaces the catalog contents from a YAML file. The
// previous contents stay in place when loading fails.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to read catalog file", err).WithContext("path", path)
	}

	var roles map[string][]string
	if err := yaml.Unmarshal(data, &roles); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"failed to parse catalog file", err).WithContext("path", path)
	}

	if len(roles) == 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"catalog file defines no roles", nil).WithContext("path", path)
	}

	// The fallback role must always exist.
	if _, ok := lookupKey(roles, c.defaultRole); !ok {
		roles[c.defaultRole] = builtinRoles[c.defaultRole]
	}

	c.mu.Lock()
	c.roles = roles
	c.mu.Unlock()

	return nil
}

// Lookup resolves a role name case-insensitively. It returns the
// canonical role name, its skill list, and whether the requested role
// matched exactly; unknown roles resolve to the default role.
func (c *Catalog) Lookup(jobRole string) (string, []string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if name, ok := lookupKey(c.roles, jobRole); ok {
		return name, cloneSkills(c.roles[name]), true
	}

	name, _ := lookupKey(c.roles, c.defaultRole)
	return name, cloneSkills(c.roles[name]), false
}

// Roles returns the known role names in sorted order.
func (c *Catalog) Roles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.roles))
	for name := range c.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupKey(roles map[string][]string, jobRole string) (string, bool) {
	for name := range roles {
		if strings.EqualFold(name, jobRole) {
			return name, true
		}
	}
	return "", false
}

func cloneSkills(skills []string) []string {
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}
