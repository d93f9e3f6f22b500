// Package patch applies declarative, row-targeted edits to the target column.
//
// An edit is a Rule: a Selector naming the rows it applies to, an Action, and
// the action's parameters. Rules are plain data, so they can be loaded from
// the configuration file as well as taken from DefaultRules. Apply interprets
// a list of rules in order against a copy of the table and reports, per rule,
// how many rows matched and how many changed.
//
// A selector that matches nothing is not an error. Removal actions never
// leave a row with an empty target; such rows receive core.EmptyTarget.
package patch
