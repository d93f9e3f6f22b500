package core

import "strings"

// EmptyTarget is the value a target cell holds when no entities remain.
const EmptyTarget = "No target; Clarification"

// TargetDelimiter separates entries in a target cell.
const TargetDelimiter = ";"

// SplitTarget splits a target cell into trimmed entries, in order.
// Blank entries are dropped.
func SplitTarget(target string) []string {
	parts := strings.Split(target, TargetDelimiter)
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

// JoinTarget joins entries with "; ". An empty list yields EmptyTarget,
// never the empty string.
func JoinTarget(entries []string) string {
	if len(entries) == 0 {
		return EmptyTarget
	}
	return strings.Join(entries, TargetDelimiter+" ")
}

// IsBlankTarget reports whether a target cell carries no entities:
// blank, or exactly the EmptyTarget sentinel.
func IsBlankTarget(target string) bool {
	target = strings.TrimSpace(target)
	return target == "" || target == EmptyTarget
}
