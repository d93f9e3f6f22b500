// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patch

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/factmap/core"
)

// Change records one rewritten target cell.
type Change struct {
	Row int
	Old string
	New string
}

// RuleReport summarizes the effect of one rule.
type RuleReport struct {
	Name   string
	Action Action
	// Matched is the number of rows the rule applied to: rows picked by the
	// selector, or rows holding a term for system-wide actions.
	Matched int
	// Changed is the number of rows whose target was rewritten.
	Changed int
	Changes []Change
	// Skipped is set when the table lacks a column the rule needs.
	Skipped bool
}

type options struct {
	logger *slog.Logger
}

// Option configures Apply.
type Option func(*options)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Apply validates rules and then applies them, in order, to a copy of t.
// A rule whose selector matches no rows reports zero and is otherwise a
// no-op. A table without a target column is returned unchanged with every
// rule reported as skipped.
func Apply(t *core.Table, rules []Rule, opts ...Option) (*core.Table, []RuleReport, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger.With("component", "patcher")

	if err := Validate(rules); err != nil {
		return nil, nil, err
	}

	out := t.Clone()
	reports := make([]RuleReport, 0, len(rules))

	for _, rule := range rules {
		report := RuleReport{Name: rule.Name, Action: rule.Action}

		if !out.HasColumn(core.ColTarget) {
			logger.Warn("target column not present, skipping rule", "rule", rule.Name)
			report.Skipped = true
			reports = append(reports, report)
			continue
		}

		rows, err := selectRows(out, rule)
		if err != nil {
			return nil, nil, err
		}

		for _, row := range rows {
			old, _ := out.Get(row, core.ColTarget)
			next, applies := rule.rewrite(old)
			if !applies {
				continue
			}
			report.Matched++
			if next == old {
				continue
			}
			if err := out.Set(row, core.ColTarget, next); err != nil {
				return nil, nil, fmt.Errorf("rule %s: %w", rule.Name, err)
			}
			report.Changed++
			report.Changes = append(report.Changes, Change{Row: row, Old: old, New: next})
		}

		if report.Matched == 0 {
			logger.Info("rule matched no rows", "rule", rule.Name, "action", rule.Action)
		} else {
			logger.Info("applied rule", "rule", rule.Name, "action", rule.Action,
				"matched", report.Matched, "changed", report.Changed)
		}
		for _, c := range report.Changes {
			logger.Debug("target rewritten", "rule", rule.Name, "row", c.Row, "old", c.Old, "new", c.New)
		}
		reports = append(reports, report)
	}

	return out, reports, nil
}

// selectRows returns the indexes of the rows a rule considers. A selector on
// a column the table lacks selects nothing.
func selectRows(t *core.Table, rule Rule) ([]int, error) {
	if rule.Selector == nil {
		rows := make([]int, t.Len())
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	values, ok := t.Column(rule.Selector.Column)
	if !ok {
		return nil, nil
	}
	match, err := rule.Selector.matcher()
	if err != nil {
		return nil, err
	}

	var rows []int
	for i, v := range values {
		if match(v) {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// rewrite computes the new target for one considered row. applies is false
// when a system-wide action finds nothing to do in the row.
func (r Rule) rewrite(target string) (next string, applies bool) {
	switch r.Action {
	case ActionAppend:
		if core.IsBlankTarget(target) {
			return r.Entry, true
		}
		if strings.Contains(target, r.Entry) {
			return target, true
		}
		return strings.TrimSpace(target) + core.TargetDelimiter + " " + r.Entry, true

	case ActionRemove:
		return removeEntries(target, r.Entries), true

	case ActionReplace:
		if r.Selector == nil && !strings.Contains(target, r.Entry) {
			return target, false
		}
		return strings.ReplaceAll(target, r.Entry, r.Replacement), true

	case ActionDrop:
		if len(core.SplitTarget(target)) == 0 {
			return core.EmptyTarget, true
		}
		if !containsAny(target, r.Entries) {
			return target, false
		}
		return removeEntries(target, r.Entries), true
	}
	return target, false
}

// removeEntries drops every entry containing one of terms and rejoins the
// rest. An empty result becomes core.EmptyTarget.
func removeEntries(target string, terms []string) string {
	entries := core.SplitTarget(target)
	kept := entries[:0]
	for _, e := range entries {
		if !containsAny(e, terms) {
			kept = append(kept, e)
		}
	}
	return core.JoinTarget(kept)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
