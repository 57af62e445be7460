package exercises

// CompletionSet tracks which exercises have been solved in each tier. It
// lives for the process only.
type CompletionSet struct {
	done map[Tier]map[string]struct{}
}

// NewCompletionSet returns an empty set.
func NewCompletionSet() *CompletionSet {
	return &CompletionSet{done: make(map[Tier]map[string]struct{})}
}

// Mark records an exercise as solved.
func (c *CompletionSet) Mark(t Tier, id string) {
	m := c.done[t]
	if m == nil {
		m = make(map[string]struct{})
		c.done[t] = m
	}
	m[id] = struct{}{}
}

// Done reports whether an exercise has been solved.
func (c *CompletionSet) Done(t Tier, id string) bool {
	_, ok := c.done[t][id]
	return ok
}

// Count returns the number of solved exercises in a tier.
func (c *CompletionSet) Count(t Tier) int {
	return len(c.done[t])
}
