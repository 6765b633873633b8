package templates

import "sort"

// DefaultName is used when no template is requested.
const DefaultName = "default"

// Registry maps shorthand names to template sources.
var Registry = map[string]string{
	DefaultName: "github:Lito-docs/template",
}

// RegistryEntry is one shorthand and its source.
type RegistryEntry struct {
	Name   string
	Source string
}

// RegistryEntries returns the registry sorted by name.
func RegistryEntries() []RegistryEntry {
	out := make([]RegistryEntry, 0, len(Registry))
	for name, src := range Registry {
		out = append(out, RegistryEntry{Name: name, Source: src})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
