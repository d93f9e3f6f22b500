package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/factmap/core"
)

// Action names what a rule does to the target column.
type Action string

const (
	// ActionAppend adds Entry to the target of selected rows unless the
	// target already contains it.
	ActionAppend Action = "append"
	// ActionRemove drops entries containing any of Entries from the target
	// of selected rows.
	ActionRemove Action = "remove"
	// ActionReplace rewrites the substring Entry to Replacement inside the
	// target of selected rows, or of every row when there is no selector.
	ActionReplace Action = "replace"
	// ActionDrop drops entries containing any of Entries from every row.
	ActionDrop Action = "drop"
)

// Selector picks rows by the content of one column. Exactly one of Contains
// and Pattern is set.
type Selector struct {
	Column   string `yaml:"column"`
	Contains string `yaml:"contains,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
}

// Rule is one named edit.
type Rule struct {
	Name        string    `yaml:"name"`
	Selector    *Selector `yaml:"selector,omitempty"`
	Action      Action    `yaml:"action"`
	Entry       string    `yaml:"entry,omitempty"`
	Entries     []string  `yaml:"entries,omitempty"`
	Replacement string    `yaml:"replacement,omitempty"`
}

// matcher returns the row predicate for the selector.
func (s *Selector) matcher() (func(string) bool, error) {
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSelector, err)
		}
		return re.MatchString, nil
	}
	contains := s.Contains
	return func(v string) bool {
		return strings.Contains(v, contains)
	}, nil
}

func (s *Selector) validate() error {
	if strings.TrimSpace(s.Column) == "" {
		return fmt.Errorf("%w: column is required", ErrInvalidSelector)
	}
	if (s.Contains == "") == (s.Pattern == "") {
		return fmt.Errorf("%w: exactly one of contains and pattern is required", ErrInvalidSelector)
	}
	_, err := s.matcher()
	return err
}

// Validate checks a single rule.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrUnnamedRule
	}

	switch r.Action {
	case ActionAppend:
		if r.Selector == nil {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingSelector)
		}
		if strings.TrimSpace(r.Entry) == "" {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingEntry)
		}
		if strings.Contains(r.Entry, core.TargetDelimiter) {
			return fmt.Errorf("%s: entry %q contains the target delimiter", r.Name, r.Entry)
		}
	case ActionRemove:
		if r.Selector == nil {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingSelector)
		}
		if !hasEntries(r.Entries) {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingEntries)
		}
	case ActionReplace:
		if r.Entry == "" {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingEntry)
		}
	case ActionDrop:
		if r.Selector != nil {
			return fmt.Errorf("%s: %w", r.Name, ErrUnexpectedSelector)
		}
		if !hasEntries(r.Entries) {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingEntries)
		}
	default:
		return fmt.Errorf("%s: %w: %q", r.Name, ErrUnknownAction, r.Action)
	}

	if r.Selector != nil {
		if err := r.Selector.validate(); err != nil {
			return fmt.Errorf("%s: %w", r.Name, err)
		}
	}
	return nil
}

// Validate checks every rule and that rule names are unique.
func Validate(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateRule, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

func hasEntries(entries []string) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			return false
		}
	}
	return true
}
