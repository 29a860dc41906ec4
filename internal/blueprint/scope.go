package blueprint

import (
	"maps"
	"sort"
)

// Scope is the ambient context a blueprint is composed in. It carries
// string hints (for example the network hint "vpc") that are consulted
// during provisioning.
type Scope struct {
	name    string
	context map[string]string
}

// NewScope creates a scope with the given name and context values.
func NewScope(name string, values map[string]string) *Scope {
	s := &Scope{name: name, context: make(map[string]string, len(values))}
	maps.Copy(s.context, values)
	return s
}

// Name returns the scope name.
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// TryGetContext returns the context value for key, or "" when unset.
func (s *Scope) TryGetContext(key string) string {
	if s == nil {
		return ""
	}
	return s.context[key]
}

// SetContext sets a context value. It must be called before provisioning starts.
func (s *Scope) SetContext(key, value string) {
	if s.context == nil {
		s.context = make(map[string]string)
	}
	s.context[key] = value
}

// ContextKeys returns the keys of all context values in sorted order.
func (s *Scope) ContextKeys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.context))
	for k := range s.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
