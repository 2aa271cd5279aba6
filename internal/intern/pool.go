// Package intern provides a small string interning pool, used to avoid
// re-allocating the identical word names looked up and module names opened
// again and again across a long-running interpreter session.
package intern

// Pool interns strings, returning a canonical copy so that repeated
// occurrences of the same text share one backing array.
type Pool struct {
	strs map[string]string
}

// String returns the canonical interned copy of s, adding it to the pool
// if this is the first time it has been seen.
func (p *Pool) String(s string) string {
	if p.strs == nil {
		p.strs = make(map[string]string)
	}
	if canon, ok := p.strs[s]; ok {
		return canon
	}
	p.strs[s] = s
	return s
}

// Len reports how many distinct strings have been interned.
func (p *Pool) Len() int { return len(p.strs) }
