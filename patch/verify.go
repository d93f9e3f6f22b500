package patch

import (
	"strings"

	"github.com/poiesic/factmap/core"
)

// Blacklist returns the terms no target may contain once rules have been
// applied: the entries of system-wide drops and the substrings rewritten by
// unscoped replacements.
func Blacklist(rules []Rule) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for _, r := range rules {
		switch {
		case r.Action == ActionDrop:
			for _, e := range r.Entries {
				add(e)
			}
		case r.Action == ActionReplace && r.Selector == nil && !strings.Contains(r.Replacement, r.Entry):
			add(r.Entry)
		}
	}
	return terms
}

// Leaks counts, per term, the rows whose target still contains it.
// Terms with no occurrences are omitted; a nil map means no leaks.
func Leaks(t *core.Table, terms []string) map[string]int {
	values, ok := t.Column(core.ColTarget)
	if !ok {
		return nil
	}

	var leaks map[string]int
	for _, v := range values {
		for _, term := range terms {
			if strings.Contains(v, term) {
				if leaks == nil {
					leaks = make(map[string]int)
				}
				leaks[term]++
			}
		}
	}
	return leaks
}
