package configcheck

import "gopkg.in/yaml.v3"

// Primitive type names used in findings.
const (
	typeString   = "string"
	typeNumber   = "number"
	typeBoolean  = "boolean"
	typeNull     = "null"
	typeMapping  = "mapping"
	typeSequence = "sequence"
)

// resolve follows aliases to the node they refer to.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// typeOf returns the primitive type name of a node.
func typeOf(n *yaml.Node) string {
	n = resolve(n)
	if n == nil {
		return typeNull
	}
	switch n.Kind {
	case yaml.MappingNode:
		return typeMapping
	case yaml.SequenceNode:
		return typeSequence
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return typeNull
		}
		return typeOf(n.Content[0])
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		return typeNumber
	case "!!bool":
		return typeBoolean
	case "!!null":
		return typeNull
	default:
		return typeString
	}
}

// pair is one key/value entry of a mapping node.
type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

// pairs returns the entries of a mapping node in document order. Merge keys
// ("<<") are expanded in place: the merged mapping, or each mapping of a
// merged sequence, contributes the keys the mapping does not set itself.
// Earlier mappings of a merged sequence take precedence over later ones.
func pairs(m *yaml.Node) []pair {
	return mergedPairs(m, 0)
}

// maxMergeDepth bounds merge expansion on pathological anchor chains.
const maxMergeDepth = 32

func mergedPairs(m *yaml.Node, depth int) []pair {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode || depth > maxMergeDepth {
		return nil
	}

	explicit := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if !isMergeKey(m.Content[i]) {
			explicit[m.Content[i].Value] = true
		}
	}

	out := make([]pair, 0, len(m.Content)/2)
	merged := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if !isMergeKey(key) {
			out = append(out, pair{key: key, value: value})
			continue
		}
		for _, src := range mergeSources(value) {
			for _, p := range mergedPairs(src, depth+1) {
				if explicit[p.key.Value] || merged[p.key.Value] {
					continue
				}
				merged[p.key.Value] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && n.ShortTag() == "!!merge"
}

// mergeSources returns the mappings named by a merge value: a mapping or a
// sequence of mappings, aliases resolved.
func mergeSources(v *yaml.Node) []*yaml.Node {
	v = resolve(v)
	if v == nil {
		return nil
	}
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}
	case yaml.SequenceNode:
		out := make([]*yaml.Node, 0, len(v.Content))
		for _, item := range v.Content {
			if r := resolve(item); r != nil && r.Kind == yaml.MappingNode {
				out = append(out, r)
			}
		}
		return out
	}
	return nil
}

// lookup returns the value of key in a mapping node. The last entry wins, as
// when decoding into a map.
func lookup(m *yaml.Node, key string) (*yaml.Node, bool) {
	var found *yaml.Node
	for _, p := range pairs(m) {
		if p.key.Value == key {
			found = p.value
		}
	}
	return found, found != nil
}
