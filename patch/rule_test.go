package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	sel := &Selector{Column: "title", Contains: "x"}

	tests := []struct {
		name  string
		rules []Rule
		err   error
	}{
		{"defaults are valid", DefaultRules(), nil},
		{"unnamed", []Rule{{Action: ActionDrop, Entries: []string{"a"}}}, ErrUnnamedRule},
		{"duplicate", []Rule{
			{Name: "a", Action: ActionDrop, Entries: []string{"a"}},
			{Name: "a", Action: ActionDrop, Entries: []string{"b"}},
		}, ErrDuplicateRule},
		{"unknown action", []Rule{{Name: "a", Action: "nope"}}, ErrUnknownAction},
		{"append without selector", []Rule{{Name: "a", Action: ActionAppend, Entry: "e"}}, ErrMissingSelector},
		{"append without entry", []Rule{{Name: "a", Selector: sel, Action: ActionAppend}}, ErrMissingEntry},
		{"remove without entries", []Rule{{Name: "a", Selector: sel, Action: ActionRemove}}, ErrMissingEntries},
		{"drop with blank entry", []Rule{{Name: "a", Action: ActionDrop, Entries: []string{" "}}}, ErrMissingEntries},
		{"drop with selector", []Rule{{Name: "a", Selector: sel, Action: ActionDrop, Entries: []string{"a"}}}, ErrUnexpectedSelector},
		{"replace without entry", []Rule{{Name: "a", Action: ActionReplace}}, ErrMissingEntry},
		{"selector without column", []Rule{{
			Name: "a", Selector: &Selector{Contains: "x"}, Action: ActionAppend, Entry: "e",
		}}, ErrInvalidSelector},
		{"selector with both matchers", []Rule{{
			Name: "a", Selector: &Selector{Column: "title", Contains: "x", Pattern: "x"}, Action: ActionAppend, Entry: "e",
		}}, ErrInvalidSelector},
		{"selector with bad pattern", []Rule{{
			Name: "a", Selector: &Selector{Column: "title", Pattern: "("}, Action: ActionAppend, Entry: "e",
		}}, ErrInvalidSelector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rules)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRule_YAML(t *testing.T) {
	data := `
- name: add-agency
  selector:
    column: title
    pattern: "^Clarification"
  action: append
  entry: Agency
- name: drop-people
  action: drop
  entries: [Alice, Bob]
`
	var rules []Rule
	require.NoError(t, yaml.Unmarshal([]byte(data), &rules))
	require.Len(t, rules, 2)
	require.NoError(t, Validate(rules))

	assert.Equal(t, ActionAppend, rules[0].Action)
	assert.Equal(t, "^Clarification", rules[0].Selector.Pattern)
	assert.Nil(t, rules[1].Selector)
	assert.Equal(t, []string{"Alice", "Bob"}, rules[1].Entries)
}

func TestBlacklistAndLeaks(t *testing.T) {
	terms := Blacklist(DefaultRules())
	assert.Equal(t, []string{
		"National University of Singapore Society",
		"Pritam Singh", "Sylvia Lim", "Low Thia Khiang",
	}, terms)

	table := newTable(t,
		[]string{"a", "Pritam Singh; Sylvia Lim"},
		[]string{"b", "Pritam Singh"},
		[]string{"c", "Clean"},
	)
	assert.Equal(t, map[string]int{"Pritam Singh": 2, "Sylvia Lim": 1}, Leaks(table, terms))
}
