package patch

import "errors"

var (
	ErrUnnamedRule        = errors.New("rule has no name")
	ErrDuplicateRule      = errors.New("duplicate rule name")
	ErrUnknownAction      = errors.New("unknown action")
	ErrMissingSelector    = errors.New("action requires a selector")
	ErrUnexpectedSelector = errors.New("action does not take a selector")
	ErrInvalidSelector    = errors.New("invalid selector")
	ErrMissingEntry       = errors.New("action requires an entry")
	ErrMissingEntries     = errors.New("action requires at least one entry")
)
