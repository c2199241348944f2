package dispatchy

// Match holds the variable bindings captured from a matched input.
// Binding values are whitespace-trimmed. A Match is valid only for the
// dispatch that produced it.
type Match struct {
	bindings map[string]string
}

// newMatch creates a Match from captured bindings.
func newMatch(bindings map[string]string) *Match {
	if bindings == nil {
		bindings = make(map[string]string)
	}
	return &Match{bindings: bindings}
}

// Binding returns the captured value for name and whether it was captured.
func (m *Match) Binding(name string) (string, bool) {
	value, ok := m.bindings[name]
	return value, ok
}

// Has reports whether a binding with the given name was captured.
func (m *Match) Has(name string) bool {
	_, ok := m.bindings[name]
	return ok
}

// Bindings returns a copy of all captured bindings.
func (m *Match) Bindings() map[string]string {
	out := make(map[string]string, len(m.bindings))
	for k, v := range m.bindings {
		out[k] = v
	}
	return out
}

// Len returns the number of captured bindings.
func (m *Match) Len() int {
	return len(m.bindings)
}
